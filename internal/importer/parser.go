package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/inspectflow/inspectflow/internal/models"
)

// dateLayouts covers the date conventions seen across back-office exports
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1-2-2006",
	"2006/01/02",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// dateTimeLayouts covers combined appointment date/time conventions
var dateTimeLayouts = []string{
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04PM",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006 3:04 PM",
}

// ParseRow converts one spreadsheet row into the canonical record shape using
// a resolved column mapping. Malformed cells leave the field zero-valued; a
// single bad cell must never hide the whole row from conflict detection.
func ParseRow(mapping ColumnMapping, row map[string]string) models.Inspection {
	get := func(field CanonicalField) string {
		header, ok := mapping[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[header])
	}

	insp := models.Inspection{
		Address:        get(FieldAddress),
		City:           get(FieldCity),
		State:          get(FieldState),
		Zip:            get(FieldZip),
		InsuredName:    get(FieldInsuredName),
		FirstName:      get(FieldFirstName),
		LastName:       get(FieldLastName),
		Company:        get(FieldCompany),
		Phone:          get(FieldPhone),
		Email:          get(FieldEmail),
		PolicyNumber:   get(FieldPolicyNumber),
		ClaimNumber:    get(FieldClaimNumber),
		InspectionType: get(FieldInspectionType),
		PropertyType:   get(FieldPropertyType),
		Notes:          get(FieldNotes),
		Status:         models.InspectionStatusOpen,
	}

	if due := parseDate(get(FieldDueDate)); due != nil {
		insp.DueDate = due
	}

	// Prefer the combined date/time column; fall back to the date-only one
	if at := parseDateTime(get(FieldAppointmentDateTime)); at != nil {
		insp.AppointmentAt = at
		insp.HasAppointment = true
	} else if at := parseDate(get(FieldAppointmentDate)); at != nil {
		insp.AppointmentAt = at
		insp.HasAppointment = true
	}

	if parseFlag(get(FieldHasAppointment)) {
		insp.HasAppointment = true
	}

	if n, err := strconv.Atoi(digitsOnly(get(FieldSquareFootage))); err == nil && n > 0 {
		insp.SquareFootage = n
	}
	if n, err := strconv.Atoi(get(FieldYearBuilt)); err == nil && n > 0 {
		insp.YearBuilt = n
	}

	return insp
}

// ParseRows converts a batch of rows, preserving input order
func ParseRows(mapping ColumnMapping, rows []map[string]string) []models.Inspection {
	records := make([]models.Inspection, 0, len(rows))
	for _, row := range rows {
		records = append(records, ParseRow(mapping, row))
	}
	return records
}

// parseDate tries the known date layouts; returns nil on failure
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// parseDateTime tries combined layouts first, then falls back to date-only
func parseDateTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return parseDate(value)
}

// parseFlag interprets the appointment-set conventions of various exports
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "x", "set", "scheduled":
		return true
	}
	return false
}

// digitsOnly keeps only the digits, so "1,250 sqft" parses as 1250
func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
