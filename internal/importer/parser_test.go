package importer

import (
	"testing"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
)

func testMapping() ColumnMapping {
	return ColumnMapping{
		FieldAddress:             "Property Address",
		FieldCity:                "City",
		FieldState:               "St",
		FieldZip:                 "Zip Code",
		FieldInsuredName:         "Insured Name",
		FieldDueDate:             "Due Date",
		FieldAppointmentDate:     "Appt Date",
		FieldAppointmentDateTime: "Appt Date/Time",
		FieldHasAppointment:      "Appt Set",
		FieldSquareFootage:       "Sq Ft",
		FieldYearBuilt:           "Year Built",
	}
}

func TestParseRowBasicFields(t *testing.T) {
	row := map[string]string{
		"Property Address": " 123 Main St ",
		"City":             "Springfield",
		"St":               "IL",
		"Zip Code":         "62704",
		"Insured Name":     "Jordan Blake",
		"Due Date":         "9/15/2026",
	}

	insp := ParseRow(testMapping(), row)

	if insp.Address != "123 Main St" {
		t.Errorf("Expected trimmed address, got %q", insp.Address)
	}
	if insp.City != "Springfield" || insp.State != "IL" || insp.Zip != "62704" {
		t.Errorf("Location fields mismatched: %q %q %q", insp.City, insp.State, insp.Zip)
	}
	if insp.Status != models.InspectionStatusOpen {
		t.Errorf("Imported records must start open, got %s", insp.Status)
	}
	if insp.DueDate == nil {
		t.Fatal("Due date should parse")
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !insp.DueDate.Equal(want) {
		t.Errorf("Due date = %v, want %v", insp.DueDate, want)
	}
}

func TestParseRowDateFormats(t *testing.T) {
	cases := []string{"9/15/2026", "09/15/2026", "2026-09-15", "Sep 15, 2026", "September 15, 2026"}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	for _, value := range cases {
		insp := ParseRow(testMapping(), map[string]string{"Due Date": value})
		if insp.DueDate == nil || !insp.DueDate.Equal(want) {
			t.Errorf("Due date %q parsed as %v, want %v", value, insp.DueDate, want)
		}
	}
}

func TestParseRowBadDateKeepsRow(t *testing.T) {
	row := map[string]string{
		"Property Address": "123 Main St",
		"Due Date":         "TBD",
	}

	insp := ParseRow(testMapping(), row)

	if insp.DueDate != nil {
		t.Errorf("Unparseable date should stay nil, got %v", insp.DueDate)
	}
	if insp.Address != "123 Main St" {
		t.Error("A bad cell must not discard the rest of the row")
	}
}

func TestParseRowAppointmentDateTime(t *testing.T) {
	insp := ParseRow(testMapping(), map[string]string{
		"Appt Date/Time": "9/15/2026 2:30 PM",
	})

	if !insp.HasAppointment {
		t.Fatal("Parsed appointment time should set the flag")
	}
	want := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	if insp.AppointmentAt == nil || !insp.AppointmentAt.Equal(want) {
		t.Errorf("Appointment = %v, want %v", insp.AppointmentAt, want)
	}
}

func TestParseRowAppointmentDateTimePreferred(t *testing.T) {
	insp := ParseRow(testMapping(), map[string]string{
		"Appt Date":      "9/16/2026",
		"Appt Date/Time": "9/15/2026 2:30 PM",
	})

	if insp.AppointmentAt == nil || insp.AppointmentAt.Day() != 15 {
		t.Errorf("Combined column should win over date-only, got %v", insp.AppointmentAt)
	}
}

func TestParseRowAppointmentFlagOnly(t *testing.T) {
	for _, value := range []string{"yes", "Y", "X", "1", "Scheduled"} {
		insp := ParseRow(testMapping(), map[string]string{"Appt Set": value})
		if !insp.HasAppointment {
			t.Errorf("Flag value %q should mark the appointment set", value)
		}
		if insp.AppointmentAt != nil {
			t.Errorf("Flag alone must not invent a time, got %v", insp.AppointmentAt)
		}
	}

	insp := ParseRow(testMapping(), map[string]string{"Appt Set": "no"})
	if insp.HasAppointment {
		t.Error("Negative flag should leave the appointment unset")
	}
}

func TestParseRowNumbers(t *testing.T) {
	insp := ParseRow(testMapping(), map[string]string{
		"Sq Ft":      "1,250 sqft",
		"Year Built": "1987",
	})

	if insp.SquareFootage != 1250 {
		t.Errorf("Square footage = %d, want 1250", insp.SquareFootage)
	}
	if insp.YearBuilt != 1987 {
		t.Errorf("Year built = %d, want 1987", insp.YearBuilt)
	}
}

func TestParseRowsPreservesOrder(t *testing.T) {
	rows := []map[string]string{
		{"Property Address": "1 First St"},
		{"Property Address": "2 Second St"},
		{"Property Address": "3 Third St"},
	}

	records := ParseRows(testMapping(), rows)

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"1 First St", "2 Second St", "3 Third St"} {
		if records[i].Address != want {
			t.Errorf("Row %d address = %q, want %q", i, records[i].Address, want)
		}
	}
}
