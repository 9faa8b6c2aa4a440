package importer

import (
	"errors"
	"testing"

	"github.com/inspectflow/inspectflow/internal/models"
)

// fakeStore records mutations in memory and can be told to fail by id
type fakeStore struct {
	records  map[uint]models.Inspection
	nextID   uint
	failOnID uint
}

func newFakeStore(existing ...models.Inspection) *fakeStore {
	fs := &fakeStore{records: make(map[uint]models.Inspection), nextID: 1000}
	for _, rec := range existing {
		fs.records[rec.ID] = rec
	}
	return fs
}

func (fs *fakeStore) InsertInspection(insp *models.Inspection) error {
	fs.nextID++
	insp.ID = fs.nextID
	fs.records[insp.ID] = *insp
	return nil
}

func (fs *fakeStore) UpdateInspectionByID(id uint, insp *models.Inspection) error {
	if id == fs.failOnID {
		return errors.New("record is locked")
	}
	if _, ok := fs.records[id]; !ok {
		return errors.New("record not found")
	}
	insp.ID = id
	fs.records[id] = *insp
	return nil
}

func TestApplyResolutionsUseNewKeepsID(t *testing.T) {
	existing := open(42, "123 Main St", "MIL")
	existing.InsuredName = "Old Name"
	fs := newFakeStore(existing)

	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}
	incoming[0].InsuredName = "New Name"

	results := ApplyResolutions(fs, incoming, []ConflictResolution{
		{ExistingID: 42, IncomingIndex: 0, Action: ActionUseNew},
	})

	if len(results) != 1 || !results[0].Applied {
		t.Fatalf("Expected applied result, got %v", results)
	}
	got := fs.records[42]
	if got.ID != 42 {
		t.Errorf("Record id must survive replacement, got %d", got.ID)
	}
	if got.InsuredName != "New Name" {
		t.Errorf("Fields should come from the incoming record, got %q", got.InsuredName)
	}
	if len(fs.records) != 1 {
		t.Errorf("use_new must not grow the record set, got %d records", len(fs.records))
	}
}

func TestApplyResolutionsKeepBothInserts(t *testing.T) {
	fs := newFakeStore(open(42, "123 Main St", "MIL"))
	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}

	results := ApplyResolutions(fs, incoming, []ConflictResolution{
		{ExistingID: 42, IncomingIndex: 0, Action: ActionKeepBoth},
	})

	if !results[0].Applied {
		t.Fatalf("Expected applied, got %v", results[0])
	}
	if len(fs.records) != 2 {
		t.Fatalf("keep_both should add a record, got %d", len(fs.records))
	}
	if got := fs.records[42]; got.Status != models.InspectionStatusOpen {
		t.Error("Existing record must be untouched")
	}
}

func TestApplyResolutionsKeepExistingAndSkipNoop(t *testing.T) {
	fs := newFakeStore(open(42, "123 Main St", "MIL"))
	incoming := []models.Inspection{open(0, "999 Other St", "MIL")}

	for _, action := range []ResolutionAction{ActionKeepExisting, ActionSkip} {
		results := ApplyResolutions(fs, incoming, []ConflictResolution{
			{ExistingID: 42, IncomingIndex: 0, Action: action},
		})
		if !results[0].Applied {
			t.Errorf("%s should report applied, got %v", action, results[0])
		}
		if len(fs.records) != 1 {
			t.Errorf("%s must leave the record set unchanged, got %d records", action, len(fs.records))
		}
		if got := fs.records[42]; got.Address != "123 Main St" {
			t.Errorf("%s must not modify the stored record", action)
		}
	}
}

func TestApplyResolutionsPartialFailureContinues(t *testing.T) {
	fs := newFakeStore(open(1, "1 First St", "MIL"), open(2, "2 Second St", "MIL"))
	fs.failOnID = 1

	incoming := []models.Inspection{
		open(0, "1 First St", "MIL"),
		open(0, "2 Second St", "MIL"),
	}

	results := ApplyResolutions(fs, incoming, []ConflictResolution{
		{ExistingID: 1, IncomingIndex: 0, Action: ActionUseNew},
		{ExistingID: 2, IncomingIndex: 1, Action: ActionUseNew},
	})

	if len(results) != 2 {
		t.Fatalf("Every resolution needs a result, got %d", len(results))
	}
	if results[0].Applied || results[0].Error == "" {
		t.Errorf("First item should report the failure, got %v", results[0])
	}
	if !results[1].Applied {
		t.Errorf("Failure must not abort later items, got %v", results[1])
	}
}

func TestApplyResolutionsBadIndex(t *testing.T) {
	fs := newFakeStore(open(1, "1 First St", "MIL"))

	results := ApplyResolutions(fs, nil, []ConflictResolution{
		{ExistingID: 1, IncomingIndex: 5, Action: ActionUseNew},
	})

	if results[0].Applied || results[0].Error == "" {
		t.Errorf("Out-of-range index should fail the item, got %v", results[0])
	}
	if got := fs.records[1]; got.Address != "1 First St" {
		t.Error("Failed item must not touch the store")
	}
}

func TestApplyResolutionsUnknownAction(t *testing.T) {
	fs := newFakeStore()

	results := ApplyResolutions(fs, nil, []ConflictResolution{
		{ExistingID: 1, Action: ResolutionAction("merge")},
	})

	if results[0].Applied || results[0].Error == "" {
		t.Errorf("Unknown action should be rejected, got %v", results[0])
	}
}

func TestCanonicalizeResolutionsPinsExistingID(t *testing.T) {
	existing := []models.Inspection{open(7, "123 Main St", "MIL")}
	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}
	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}

	// The submitted id points at a record the scan never classified; the
	// conflict's own pairing must win
	canonical, err := CanonicalizeResolutions(conflicts, []ConflictResolution{
		{ExistingID: 9999, IncomingIndex: 0, Action: ActionUseNew},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if canonical[0].ExistingID != 7 {
		t.Fatalf("Resolution must target the classified record, got id %d", canonical[0].ExistingID)
	}

	fs := newFakeStore(open(7, "123 Main St", "MIL"))
	results := ApplyResolutions(fs, incoming, canonical)
	if !results[0].Applied {
		t.Fatalf("Expected applied result, got %v", results[0])
	}
	if _, ok := fs.records[9999]; ok {
		t.Error("No write may reach a record outside the scanned conflicts")
	}
	if got := fs.records[7]; got.ID != 7 {
		t.Errorf("Update should land on the classified record, got %v", got)
	}
}

func TestCanonicalizeResolutionsRejectsUnknownRow(t *testing.T) {
	conflicts := []ConflictItem{{IncomingIndex: 0, Existing: open(7, "123 Main St", "MIL")}}

	_, err := CanonicalizeResolutions(conflicts, []ConflictResolution{
		{IncomingIndex: 3, Action: ActionUseNew},
	})
	if err == nil {
		t.Fatal("A resolution for an unflagged row must be rejected")
	}
}

func TestTallyActions(t *testing.T) {
	tally := TallyActions([]ConflictResolution{
		{Action: ActionUseNew},
		{Action: ActionUseNew},
		{Action: ActionSkip},
		{Action: ActionKeepBoth},
	})

	if tally[ActionUseNew] != 2 || tally[ActionSkip] != 1 || tally[ActionKeepBoth] != 1 {
		t.Errorf("Unexpected tally: %v", tally)
	}
	if tally[ActionKeepExisting] != 0 {
		t.Errorf("Absent actions should count 0, got %d", tally[ActionKeepExisting])
	}
}
