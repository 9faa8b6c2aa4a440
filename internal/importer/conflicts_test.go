package importer

import (
	"testing"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
)

func open(id uint, address, company string) models.Inspection {
	return models.Inspection{
		ID:      id,
		Address: address,
		Company: company,
		Status:  models.InspectionStatusOpen,
	}
}

func withAppointment(insp models.Inspection, at time.Time) models.Inspection {
	insp.AppointmentAt = &at
	insp.HasAppointment = true
	return insp
}

func TestClassifyDuplicate(t *testing.T) {
	existing := []models.Inspection{open(7, "123 Main St", "MIL")}
	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())

	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != ConflictDuplicate {
		t.Errorf("Expected duplicate, got %s", conflicts[0].Type)
	}
	if conflicts[0].SuggestedAction != ActionUseNew {
		t.Errorf("Duplicate should suggest use_new, got %s", conflicts[0].SuggestedAction)
	}
	if conflicts[0].Existing.ID != 7 {
		t.Errorf("Conflict should reference the stored record, got id %d", conflicts[0].Existing.ID)
	}
}

func TestClassifyDuplicateNormalizesAddress(t *testing.T) {
	existing := []models.Inspection{open(1, "123 Main St.", "MIL")}
	incoming := []models.Inspection{open(0, "  123  MAIN st", "mil")}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())

	if len(conflicts) != 1 || conflicts[0].Type != ConflictDuplicate {
		t.Fatalf("Punctuation and case must not hide a duplicate, got %v", conflicts)
	}
}

func TestClassifyTimeOverlap(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	existing := []models.Inspection{withAppointment(open(2, "500 Oak Ave", "MIL"), day)}
	incoming := []models.Inspection{withAppointment(open(0, "77 Pine Rd", "MIL"), day.Add(30*time.Minute))}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())

	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != ConflictTimeOverlap {
		t.Errorf("Expected time_overlap, got %s", conflicts[0].Type)
	}
	if conflicts[0].SuggestedAction != ActionKeepBoth {
		t.Errorf("Time overlap should suggest keep_both, got %s", conflicts[0].SuggestedAction)
	}
}

func TestClassifyTimeOverlapRespectsWindow(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	existing := []models.Inspection{withAppointment(open(2, "500 Oak Ave", "MIL"), day)}
	incoming := []models.Inspection{withAppointment(open(0, "77 Pine Rd", "MIL"), day.Add(90*time.Minute))}

	// Default ±60 minute window: 90 minutes apart is fine
	if got := ClassifyConflicts(incoming, existing, DefaultClassifierConfig()); len(got) != 0 {
		t.Errorf("Appointments outside the window should not conflict, got %v", got)
	}

	// A wider window catches it
	wide := DefaultClassifierConfig()
	wide.OverlapWindow = 2 * time.Hour
	if got := ClassifyConflicts(incoming, existing, wide); len(got) != 1 {
		t.Errorf("Widened window should catch the overlap, got %v", got)
	}
}

func TestClassifyTimeOverlapDifferentDays(t *testing.T) {
	existing := []models.Inspection{withAppointment(open(2, "500 Oak Ave", "MIL"),
		time.Date(2026, 8, 20, 23, 50, 0, 0, time.UTC))}
	incoming := []models.Inspection{withAppointment(open(0, "77 Pine Rd", "MIL"),
		time.Date(2026, 8, 21, 0, 10, 0, 0, time.UTC))}

	if got := ClassifyConflicts(incoming, existing, DefaultClassifierConfig()); len(got) != 0 {
		t.Errorf("Appointments on different days should not overlap, got %v", got)
	}
}

func TestClassifyAddressMatch(t *testing.T) {
	existing := []models.Inspection{open(3, "123 Main St", "ACME")}
	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())

	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != ConflictAddressMatch {
		t.Errorf("Expected address_match, got %s", conflicts[0].Type)
	}
	if conflicts[0].SuggestedAction != ActionKeepExisting {
		t.Errorf("Address match should suggest keep_existing, got %s", conflicts[0].SuggestedAction)
	}
}

func TestClassifyPrecedenceDuplicateWins(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	// The incoming record is a duplicate of one stored record and a time
	// overlap with another; precedence must report the duplicate.
	existing := []models.Inspection{
		withAppointment(open(11, "900 Elm St", "MIL"), day.Add(20*time.Minute)),
		open(12, "123 Main St", "MIL"),
	}
	incoming := []models.Inspection{withAppointment(open(0, "123 Main St", "MIL"), day)}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())

	if len(conflicts) != 1 {
		t.Fatalf("Expected a single strongest conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != ConflictDuplicate {
		t.Errorf("Duplicate must outrank time_overlap, got %s", conflicts[0].Type)
	}
	if conflicts[0].Existing.ID != 12 {
		t.Errorf("Expected the duplicate pair, got existing id %d", conflicts[0].Existing.ID)
	}
}

func TestClassifyClosedRecordsIgnored(t *testing.T) {
	closed := open(4, "123 Main St", "MIL")
	closed.Status = models.InspectionStatusCompleted

	incoming := []models.Inspection{open(0, "123 Main St", "MIL")}

	if got := ClassifyConflicts(incoming, []models.Inspection{closed}, DefaultClassifierConfig()); len(got) != 0 {
		t.Errorf("Closed records must not produce duplicates, got %v", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	existing := []models.Inspection{open(5, "500 Oak Ave", "MIL")}
	incoming := []models.Inspection{open(0, "77 Pine Rd", "ACME")}

	conflicts := ClassifyConflicts(incoming, existing, DefaultClassifierConfig())
	if len(conflicts) != 0 {
		t.Errorf("Unrelated records must not conflict, got %v", conflicts)
	}
}

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"123 Main St", "123 main st"},
		{"123  Main   St.", "123 main st"},
		{"  123 MAIN ST ", "123 main st"},
		{"123-Main#St", "123mainst"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeAddress(c.in); got != c.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
