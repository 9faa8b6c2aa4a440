package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportSessionStatus defines the states of a two-phase import
type ImportSessionStatus string

const (
	ImportSessionPending   ImportSessionStatus = "pending"   // Scanned, awaiting conflict decisions
	ImportSessionCommitted ImportSessionStatus = "committed" // Resolutions applied
	ImportSessionDiscarded ImportSessionStatus = "discarded" // Abandoned without commit
)

// ImportSession persists the state of one import batch between the scan
// request and the commit request, so the operator can review conflicts
// before anything touches the inspection table.
type ImportSession struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"index;not null" json:"user_id"`
	Company string `json:"company"`

	Status ImportSessionStatus `gorm:"default:pending" json:"status"`

	PendingRows datatypes.JSON `json:"pending_rows"` // parsed canonical records awaiting commit
	Conflicts   datatypes.JSON `json:"conflicts"`    // classified conflict items for the batch

	RowCount      int `json:"row_count"`
	ConflictCount int `json:"conflict_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for ImportSession model
func (ImportSession) TableName() string {
	return "import_sessions"
}
