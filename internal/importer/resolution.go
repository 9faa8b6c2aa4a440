package importer

import (
	"fmt"

	"github.com/inspectflow/inspectflow/internal/models"
)

// ConflictResolution is the operator's final decision for one ConflictItem
type ConflictResolution struct {
	ExistingID    uint             `json:"existing_id"`
	IncomingIndex int              `json:"incoming_index"`
	Action        ResolutionAction `json:"action"`
}

// CanonicalizeResolutions validates operator decisions against the scanned
// conflicts and pins each one to the record it was classified with. The
// client-supplied existing id is never trusted; the ConflictItem for the
// resolution's incoming index decides which stored record is resolved, and a
// resolution referencing a row the scan never flagged is rejected outright.
func CanonicalizeResolutions(conflicts []ConflictItem, resolutions []ConflictResolution) ([]ConflictResolution, error) {
	byIndex := make(map[int]ConflictItem, len(conflicts))
	for _, c := range conflicts {
		byIndex[c.IncomingIndex] = c
	}

	out := make([]ConflictResolution, 0, len(resolutions))
	for _, res := range resolutions {
		item, ok := byIndex[res.IncomingIndex]
		if !ok {
			return nil, fmt.Errorf("resolution for row %d matches no scanned conflict", res.IncomingIndex)
		}
		res.ExistingID = item.Existing.ID
		out = append(out, res)
	}
	return out, nil
}

// RecordStore is the subset of store operations resolution commits need
type RecordStore interface {
	InsertInspection(insp *models.Inspection) error
	UpdateInspectionByID(id uint, insp *models.Inspection) error
}

// CommitResult reports the outcome of applying one resolution. Commits are
// independent per item: a failure is reported here and the batch continues,
// with already-applied items staying applied.
type CommitResult struct {
	ExistingID uint             `json:"existing_id"`
	Action     ResolutionAction `json:"action"`
	Applied    bool             `json:"applied"`
	Error      string           `json:"error,omitempty"`
}

// ApplyResolutions translates operator decisions into store mutations:
//
//	keep_existing, skip  -> nothing touches the store
//	use_new              -> the stored record's fields are replaced, id kept
//	keep_both            -> the incoming record is inserted as a new row
//
// Each item is applied on its own; there is no batch transaction to roll back.
func ApplyResolutions(store RecordStore, incoming []models.Inspection, resolutions []ConflictResolution) []CommitResult {
	results := make([]CommitResult, 0, len(resolutions))

	for _, res := range resolutions {
		result := CommitResult{ExistingID: res.ExistingID, Action: res.Action}

		switch res.Action {
		case ActionKeepExisting, ActionSkip:
			result.Applied = true

		case ActionUseNew:
			candidate, err := incomingAt(incoming, res.IncomingIndex)
			if err != nil {
				result.Error = err.Error()
				break
			}
			candidate.ID = res.ExistingID
			if err := store.UpdateInspectionByID(res.ExistingID, &candidate); err != nil {
				result.Error = err.Error()
				break
			}
			result.Applied = true

		case ActionKeepBoth:
			candidate, err := incomingAt(incoming, res.IncomingIndex)
			if err != nil {
				result.Error = err.Error()
				break
			}
			candidate.ID = 0 // The store assigns a fresh id
			if err := store.InsertInspection(&candidate); err != nil {
				result.Error = err.Error()
				break
			}
			result.Applied = true

		default:
			result.Error = fmt.Sprintf("unknown resolution action %q", res.Action)
		}

		results = append(results, result)
	}

	return results
}

// TallyActions counts how many items are slated for each action, so the
// operator can sanity-check the batch before confirming.
func TallyActions(resolutions []ConflictResolution) map[ResolutionAction]int {
	tally := make(map[ResolutionAction]int)
	for _, res := range resolutions {
		tally[res.Action]++
	}
	return tally
}

func incomingAt(incoming []models.Inspection, idx int) (models.Inspection, error) {
	if idx < 0 || idx >= len(incoming) {
		return models.Inspection{}, fmt.Errorf("incoming index %d out of range", idx)
	}
	return incoming[idx], nil
}
