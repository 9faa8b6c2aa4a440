package importer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
)

// ReconcileDecision classifies the fate of a record missing from a re-export
type ReconcileDecision string

const (
	DecisionCompleted ReconcileDecision = "completed" // Finished upstream
	DecisionRemoved   ReconcileDecision = "removed"   // Cancelled upstream
)

// MissingInspection is a previously tracked open record that no longer
// appears in the company's latest full export. Transient: produced during a
// reconciliation run, discarded after the operator confirms.
type MissingInspection struct {
	Inspection    models.Inspection `json:"inspection"`
	DaysRemaining int               `json:"days_remaining"`
	Decision      ReconcileDecision `json:"decision"`
}

// Reconcile compares a company's complete fresh export against the stored
// open records and returns the ones whose address+claim identity is absent
// from the export, each defaulted to completed. Records that are no longer
// open are never reported, whatever the export contains.
func Reconcile(latestExport, previouslyOpen []models.Inspection) []MissingInspection {
	seen := make(map[string]bool, len(latestExport))
	for i := range latestExport {
		seen[identityKey(latestExport[i])] = true
	}

	now := time.Now()
	missing := make([]MissingInspection, 0)
	for i := range previouslyOpen {
		rec := previouslyOpen[i]
		if !rec.IsOpen() {
			continue
		}
		if seen[identityKey(rec)] {
			continue
		}
		missing = append(missing, MissingInspection{
			Inspection:    rec,
			DaysRemaining: daysRemaining(rec.DueDate, now),
			Decision:      DecisionCompleted,
		})
	}
	return missing
}

// SplitDecisions aggregates confirmed decisions into the two id lists the
// store's bulk status update consumes
func SplitDecisions(items []MissingInspection) (completedIDs, removedIDs []uint) {
	for _, item := range items {
		if item.Decision == DecisionRemoved {
			removedIDs = append(removedIDs, item.Inspection.ID)
		} else {
			completedIDs = append(completedIDs, item.Inspection.ID)
		}
	}
	return completedIDs, removedIDs
}

// StatusStore is the subset of store operations reconciliation commits need
type StatusStore interface {
	BulkUpdateStatus(ids []uint, status models.InspectionStatus, completedAt *time.Time) error
}

// ApplyReconciliation commits confirmed decisions: completed records get a
// completion timestamp of now, removed records are marked cancelled. The two
// groups commit independently; a failure in one does not roll back the other.
func ApplyReconciliation(store StatusStore, completedIDs, removedIDs []uint, now time.Time) error {
	var errs []string

	if len(completedIDs) > 0 {
		if err := store.BulkUpdateStatus(completedIDs, models.InspectionStatusCompleted, &now); err != nil {
			errs = append(errs, fmt.Sprintf("completed batch: %v", err))
		}
	}
	if len(removedIDs) > 0 {
		if err := store.BulkUpdateStatus(removedIDs, models.InspectionStatusCancelled, nil); err != nil {
			errs = append(errs, fmt.Sprintf("removed batch: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reconciliation commit: %s", strings.Join(errs, "; "))
	}
	return nil
}

// identityKey builds the address+claim identity used for export matching
func identityKey(insp models.Inspection) string {
	return NormalizeAddress(insp.Address) + "|" + strings.ToLower(strings.TrimSpace(insp.ClaimNumber))
}

// daysRemaining counts whole days until the due date; negative means overdue
func daysRemaining(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	return int(math.Floor(due.Sub(now).Hours() / 24))
}
