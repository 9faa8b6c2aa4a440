package models

import (
	"time"

	"gorm.io/gorm"
)

// InspectionStatus defines the lifecycle states of a tracked work order
type InspectionStatus string

const (
	InspectionStatusOpen      InspectionStatus = "open"      // Still tracked, not yet done
	InspectionStatusCompleted InspectionStatus = "completed" // Finished upstream or in the field
	InspectionStatusCancelled InspectionStatus = "cancelled" // Removed from the back office
)

// Inspection is the canonical record shape for one inspection work order.
// Every import source, whatever its spreadsheet schema, is parsed into this
// shape before conflict detection and storage.
type Inspection struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	// Source back office that exported this row
	Company string `gorm:"index" json:"company"`

	// Property location (the only required fields on import)
	Address string `gorm:"index" json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	// Insured / customer identity
	InsuredName string `json:"insured_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`

	// Claim paperwork
	PolicyNumber string `gorm:"index" json:"policy_number"`
	ClaimNumber  string `gorm:"index" json:"claim_number"`

	// Scheduling
	DueDate        *time.Time `json:"due_date,omitempty"`
	HasAppointment bool       `json:"has_appointment"`
	AppointmentAt  *time.Time `json:"appointment_at,omitempty"`

	// Property details
	InspectionType string `json:"inspection_type"`
	SquareFootage  int    `json:"square_footage"`
	YearBuilt      int    `json:"year_built"`
	PropertyType   string `json:"property_type"`

	// Urgency is derived by the external planning service, never computed here
	Urgency string `gorm:"default:'routine'" json:"urgency"`

	Status InspectionStatus `gorm:"default:open;index" json:"status"`
	Notes  string           `gorm:"type:text" json:"notes"`

	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Inspection model
func (Inspection) TableName() string {
	return "inspections"
}

// IsOpen returns true if the inspection is still tracked as outstanding work
func (i *Inspection) IsOpen() bool {
	return i.Status == InspectionStatusOpen
}

// FullName returns the insured name, falling back to the first/last split
func (i *Inspection) FullName() string {
	if i.InsuredName != "" {
		return i.InsuredName
	}
	if i.FirstName == "" && i.LastName == "" {
		return ""
	}
	if i.FirstName == "" {
		return i.LastName
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}
