package models

import (
	"time"

	"gorm.io/datatypes"
)

// CompanyProfile stores a confirmed column mapping for one back-office export
// schema so the next import from the same company starts pre-mapped.
// UnmappedColumns keeps the headers the mapper could not place; together with
// the mapping they act as a fingerprint of that company's export format.
type CompanyProfile struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  string `gorm:"index;not null;uniqueIndex:idx_profile_user_company" json:"user_id"`
	Company string `gorm:"not null;uniqueIndex:idx_profile_user_company" json:"company"`

	Mapping         datatypes.JSON `json:"mapping"`          // canonical field -> source header
	UnmappedColumns datatypes.JSON `json:"unmapped_columns"` // headers with no canonical match

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for CompanyProfile model
func (CompanyProfile) TableName() string {
	return "company_profiles"
}
