package importer

import (
	"strings"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
)

// ConflictType classifies how an incoming record collides with a stored one
type ConflictType string

const (
	ConflictDuplicate    ConflictType = "duplicate"     // Same address, same company, both open
	ConflictTimeOverlap  ConflictType = "time_overlap"  // Appointments too close together on the same day
	ConflictAddressMatch ConflictType = "address_match" // Same property, different company or claim identity
)

// ResolutionAction is one operator decision for a classified conflict
type ResolutionAction string

const (
	ActionKeepExisting ResolutionAction = "keep_existing" // Discard the incoming record
	ActionUseNew       ResolutionAction = "use_new"       // Replace the stored fields, keep the stored id
	ActionKeepBoth     ResolutionAction = "keep_both"     // Insert the incoming record as a new row
	ActionSkip         ResolutionAction = "skip"          // Drop the row with no trace
)

// ConflictItem pairs one incoming record with the stored record it collides
// with. Transient: built during a batch scan, discarded after resolution.
type ConflictItem struct {
	IncomingIndex   int               `json:"incoming_index"`
	Incoming        models.Inspection `json:"incoming"`
	Existing        models.Inspection `json:"existing"`
	Type            ConflictType      `json:"type"`
	SuggestedAction ResolutionAction  `json:"suggested_action"`
}

// ClassifierConfig holds the tunable classification policy. The rules are
// not mutually exclusive in real data, so precedence decides which type a
// record that matches several rules is reported as.
type ClassifierConfig struct {
	OverlapWindow time.Duration
	Precedence    []ConflictType
}

// DefaultClassifierConfig returns the standard policy: a ±60 minute
// appointment window and duplicate > time_overlap > address_match precedence.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		OverlapWindow: 60 * time.Minute,
		Precedence: []ConflictType{
			ConflictDuplicate,
			ConflictTimeOverlap,
			ConflictAddressMatch,
		},
	}
}

// ClassifyConflicts evaluates each incoming record against the stored open
// records and returns at most one ConflictItem per incoming record: the
// strongest match under the configured precedence. No match is the common
// case and produces nothing; classification itself never fails.
func ClassifyConflicts(incoming, existing []models.Inspection, cfg ClassifierConfig) []ConflictItem {
	if len(cfg.Precedence) == 0 {
		cfg = DefaultClassifierConfig()
	}

	conflicts := make([]ConflictItem, 0)
	for i := range incoming {
		if item := classifyOne(i, incoming[i], existing, cfg); item != nil {
			conflicts = append(conflicts, *item)
		}
	}
	return conflicts
}

// classifyOne finds the strongest collision for one incoming record.
// Rules are checked in precedence order across the whole existing set, so a
// duplicate anywhere beats a time overlap anywhere.
func classifyOne(idx int, in models.Inspection, existing []models.Inspection, cfg ClassifierConfig) *ConflictItem {
	for _, rule := range cfg.Precedence {
		for j := range existing {
			if matchesRule(rule, in, existing[j], cfg) {
				return &ConflictItem{
					IncomingIndex:   idx,
					Incoming:        in,
					Existing:        existing[j],
					Type:            rule,
					SuggestedAction: SuggestedAction(rule),
				}
			}
		}
	}
	return nil
}

// matchesRule evaluates one classification rule on an (incoming, existing) pair
func matchesRule(rule ConflictType, in, ex models.Inspection, cfg ClassifierConfig) bool {
	switch rule {
	case ConflictDuplicate:
		return ex.IsOpen() &&
			sameAddress(in, ex) &&
			sameCompany(in, ex)

	case ConflictTimeOverlap:
		if in.AppointmentAt == nil || ex.AppointmentAt == nil {
			return false
		}
		if sameAddress(in, ex) {
			return false
		}
		a, b := *in.AppointmentAt, *ex.AppointmentAt
		if !sameDay(a, b) {
			return false
		}
		diff := a.Sub(b)
		if diff < 0 {
			diff = -diff
		}
		return diff <= cfg.OverlapWindow

	case ConflictAddressMatch:
		return ex.IsOpen() &&
			sameAddress(in, ex) &&
			(!sameCompany(in, ex) || !sameClaimIdentity(in, ex))
	}
	return false
}

// SuggestedAction returns the default operator decision for a conflict type.
// Defaults only; the operator confirms or overrides every item.
func SuggestedAction(t ConflictType) ResolutionAction {
	switch t {
	case ConflictDuplicate:
		// The fresher export supersedes the stored copy
		return ActionUseNew
	case ConflictTimeOverlap:
		// Likely two distinct real appointments
		return ActionKeepBoth
	default:
		// Avoid clobbering a differently-sourced open job at the same property
		return ActionKeepExisting
	}
}

func sameAddress(a, b models.Inspection) bool {
	na, nb := NormalizeAddress(a.Address), NormalizeAddress(b.Address)
	return na != "" && na == nb
}

func sameCompany(a, b models.Inspection) bool {
	return strings.EqualFold(strings.TrimSpace(a.Company), strings.TrimSpace(b.Company))
}

// sameClaimIdentity compares claim number when both sides carry one, falling
// back to the insured name
func sameClaimIdentity(a, b models.Inspection) bool {
	ca, cb := strings.TrimSpace(a.ClaimNumber), strings.TrimSpace(b.ClaimNumber)
	if ca != "" && cb != "" {
		return strings.EqualFold(ca, cb)
	}
	return strings.EqualFold(strings.TrimSpace(a.FullName()), strings.TrimSpace(b.FullName()))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NormalizeAddress lowercases, strips punctuation and collapses whitespace.
// Deliberately no semantic normalization ("St" vs "Street" stay distinct).
func NormalizeAddress(addr string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(addr)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
		// Punctuation is dropped entirely
	}
	return strings.TrimSpace(b.String())
}
