package importer

// CanonicalField is one normalized attribute in the target inspection schema.
// Every import source's headers are resolved to these names before parsing.
type CanonicalField string

const (
	FieldAddress             CanonicalField = "address"
	FieldCity                CanonicalField = "city"
	FieldState               CanonicalField = "state"
	FieldZip                 CanonicalField = "zip"
	FieldInsuredName         CanonicalField = "insured_name"
	FieldFirstName           CanonicalField = "first_name"
	FieldLastName            CanonicalField = "last_name"
	FieldCompany             CanonicalField = "company"
	FieldDueDate             CanonicalField = "due_date"
	FieldHasAppointment      CanonicalField = "has_appointment"
	FieldAppointmentDate     CanonicalField = "appointment_date"
	FieldAppointmentDateTime CanonicalField = "appointment_datetime"
	FieldInspectionType      CanonicalField = "inspection_type"
	FieldNotes               CanonicalField = "notes"
	FieldPolicyNumber        CanonicalField = "policy_number"
	FieldClaimNumber         CanonicalField = "claim_number"
	FieldPhone               CanonicalField = "phone"
	FieldEmail               CanonicalField = "email"
	FieldSquareFootage       CanonicalField = "square_footage"
	FieldYearBuilt           CanonicalField = "year_built"
	FieldPropertyType        CanonicalField = "property_type"
)

// FieldSpec describes one canonical field: its display label, whether a
// mapping is unusable without it, its claim priority during inference
// (lower claims first), and the lowercase header phrases that resolve to it.
type FieldSpec struct {
	Field    CanonicalField
	Label    string
	Required bool
	Priority int
	Synonyms []string
}

// fieldTable is the static keyword table. Loaded once, never mutated.
// Order matches priority so inference can walk it directly.
var fieldTable = []FieldSpec{
	{
		Field: FieldAddress, Label: "Street Address", Required: true, Priority: 1,
		Synonyms: []string{"address", "property address", "street address", "street", "loss address", "risk address", "addr", "location"},
	},
	{
		Field: FieldCity, Label: "City", Required: true, Priority: 2,
		Synonyms: []string{"city", "town", "property city", "loss city"},
	},
	{
		Field: FieldState, Label: "State", Required: true, Priority: 3,
		Synonyms: []string{"state", "st", "province", "property state", "loss state"},
	},
	{
		Field: FieldZip, Label: "Zip Code", Required: true, Priority: 4,
		Synonyms: []string{"zip", "zip code", "zipcode", "postal code", "postal", "property zip"},
	},
	{
		Field: FieldDueDate, Label: "Due Date", Required: false, Priority: 5,
		Synonyms: []string{"due date", "due", "date due", "deadline", "inspection due", "complete by", "due by"},
	},
	{
		Field: FieldInsuredName, Label: "Insured Name", Required: false, Priority: 6,
		Synonyms: []string{"insured name", "insured", "customer name", "customer", "client name", "homeowner", "policyholder", "name of insured"},
	},
	{
		Field: FieldCompany, Label: "Company", Required: false, Priority: 7,
		Synonyms: []string{"company", "company name", "carrier", "client company", "vendor", "firm"},
	},
	{
		Field: FieldClaimNumber, Label: "Claim Number", Required: false, Priority: 8,
		Synonyms: []string{"claim number", "claim #", "claim no", "claim", "claim id", "file number"},
	},
	{
		Field: FieldPolicyNumber, Label: "Policy Number", Required: false, Priority: 9,
		Synonyms: []string{"policy number", "policy #", "policy no", "policy", "policy id"},
	},
	{
		Field: FieldAppointmentDateTime, Label: "Appointment Date/Time", Required: false, Priority: 10,
		Synonyms: []string{"appointment date/time", "appointment datetime", "appointment date time", "appt date/time", "appt datetime", "scheduled date/time"},
	},
	{
		Field: FieldAppointmentDate, Label: "Appointment Date", Required: false, Priority: 11,
		Synonyms: []string{"appointment date", "appt date", "date of appointment", "scheduled date", "inspection date"},
	},
	{
		Field: FieldHasAppointment, Label: "Appointment Set", Required: false, Priority: 12,
		Synonyms: []string{"appointment", "appointment set", "appt", "has appointment", "scheduled", "appt set"},
	},
	{
		Field: FieldInspectionType, Label: "Inspection Type", Required: false, Priority: 13,
		Synonyms: []string{"inspection type", "type", "service type", "job type", "order type"},
	},
	{
		Field: FieldFirstName, Label: "First Name", Required: false, Priority: 14,
		Synonyms: []string{"first name", "firstname", "fname", "first"},
	},
	{
		Field: FieldLastName, Label: "Last Name", Required: false, Priority: 15,
		Synonyms: []string{"last name", "lastname", "lname", "last", "surname"},
	},
	{
		Field: FieldPhone, Label: "Phone", Required: false, Priority: 16,
		Synonyms: []string{"phone", "phone number", "telephone", "mobile", "cell", "contact phone"},
	},
	{
		Field: FieldEmail, Label: "Email", Required: false, Priority: 17,
		Synonyms: []string{"email", "email address", "e-mail", "contact email"},
	},
	{
		Field: FieldSquareFootage, Label: "Square Footage", Required: false, Priority: 18,
		Synonyms: []string{"square footage", "square feet", "sq ft", "sqft", "living area"},
	},
	{
		Field: FieldYearBuilt, Label: "Year Built", Required: false, Priority: 19,
		Synonyms: []string{"year built", "built", "construction year", "yr built"},
	},
	{
		Field: FieldPropertyType, Label: "Property Type", Required: false, Priority: 20,
		Synonyms: []string{"property type", "dwelling type", "building type", "occupancy"},
	},
	{
		Field: FieldNotes, Label: "Notes", Required: false, Priority: 21,
		Synonyms: []string{"notes", "note", "comments", "remarks", "description", "special instructions"},
	},
}

// FieldTable returns the static field specs in claim-priority order.
// Callers must treat the returned slice as read-only.
func FieldTable() []FieldSpec {
	return fieldTable
}

// RequiredFields returns the labels of all required canonical fields
func RequiredFields() []string {
	var labels []string
	for _, spec := range fieldTable {
		if spec.Required {
			labels = append(labels, spec.Label)
		}
	}
	return labels
}

// LabelFor returns the display label for a canonical field
func LabelFor(field CanonicalField) string {
	for _, spec := range fieldTable {
		if spec.Field == field {
			return spec.Label
		}
	}
	return string(field)
}
