package importer

import (
	"sort"
	"strings"
)

// MappingConfig holds the scoring constants for header inference.
// The invariant is the ordering exact > partial > threshold, not the values.
type MappingConfig struct {
	ExactScore   float64 `json:"exact_score"`
	PartialScore float64 `json:"partial_score"`
	MinScore     float64 `json:"min_score"`
}

// DefaultMappingConfig returns the standard scoring constants
func DefaultMappingConfig() MappingConfig {
	return MappingConfig{
		ExactScore:   100,
		PartialScore: 80,
		MinScore:     30,
	}
}

// ColumnMapping resolves canonical fields to source header strings.
// Fields with no entry are unmapped for this import session.
type ColumnMapping map[CanonicalField]string

// MappingResult is the outcome of header inference for one import session
type MappingResult struct {
	Mapping         ColumnMapping `json:"mapping"`
	MissingRequired []string      `json:"missing_required"`
	Unmapped        []string      `json:"unmapped"`
}

// Usable reports whether every required field resolved to a header
func (r MappingResult) Usable() bool {
	return len(r.MissingRequired) == 0
}

// InferMapping proposes one source header per canonical field using the
// default scoring constants. See InferMappingWithConfig.
func InferMapping(headers []string) MappingResult {
	return InferMappingWithConfig(headers, DefaultMappingConfig())
}

// InferMappingWithConfig walks canonical fields in priority order and greedily
// claims the best-scoring unused header for each. A claimed header is never
// reassigned, so ties between fields always favor the higher-priority field.
// Headers no field claims are reported back as unmapped rather than dropped;
// they form part of the company's export fingerprint.
func InferMappingWithConfig(headers []string, cfg MappingConfig) MappingResult {
	specs := make([]FieldSpec, len(fieldTable))
	copy(specs, fieldTable)
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Priority < specs[j].Priority
	})

	mapping := make(ColumnMapping)
	used := make(map[int]bool, len(headers))

	for _, spec := range specs {
		bestIdx := -1
		bestScore := 0.0

		for i, header := range headers {
			if used[i] {
				continue
			}
			score := scoreHeader(header, spec.Synonyms, cfg)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestScore > cfg.MinScore {
			mapping[spec.Field] = headers[bestIdx]
			used[bestIdx] = true
		}
	}

	var missing []string
	for _, spec := range specs {
		if spec.Required {
			if _, ok := mapping[spec.Field]; !ok {
				missing = append(missing, spec.Label)
			}
		}
	}

	var unmapped []string
	for i, header := range headers {
		if !used[i] {
			unmapped = append(unmapped, header)
		}
	}

	return MappingResult{
		Mapping:         mapping,
		MissingRequired: missing,
		Unmapped:        unmapped,
	}
}

// scoreHeader returns the best score of a header against a synonym list.
// Exact case-insensitive match wins outright; substring containment in
// either direction scores by length ratio so near-complete overlaps beat
// incidental ones. Underscored headers ("zip_code") score as their spaced
// form, so machine-generated exports match the same synonyms.
func scoreHeader(header string, synonyms []string, cfg MappingConfig) float64 {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, "_", " ")
	if h == "" {
		return 0
	}

	best := 0.0
	for _, syn := range synonyms {
		if h == syn {
			return cfg.ExactScore
		}

		if strings.Contains(h, syn) || strings.Contains(syn, h) {
			shorter, longer := len(syn), len(h)
			if shorter > longer {
				shorter, longer = longer, shorter
			}
			score := float64(shorter) / float64(longer) * cfg.PartialScore
			if score > best {
				best = score
			}
		}
	}
	return best
}
