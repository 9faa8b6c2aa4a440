package store

import (
	"fmt"
	"time"

	"github.com/inspectflow/inspectflow/internal/database"
	"github.com/inspectflow/inspectflow/internal/models"
)

// Store wraps the database with the persistence operations the import and
// reconciliation pipelines use. All reads and writes are scoped by user id;
// each write is an independent single-record (or small-batch) commit.
type Store struct {
	db *database.DB
}

// New creates a store backed by the given database
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// FetchOpenByCompany returns the user's open inspections for one company
func (s *Store) FetchOpenByCompany(userID, company string) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := s.db.
		Where("user_id = ? AND status = ? AND LOWER(company) = LOWER(?)", userID, models.InspectionStatusOpen, company).
		Find(&inspections).Error
	if err != nil {
		return nil, fmt.Errorf("fetch open inspections: %w", err)
	}
	return inspections, nil
}

// FetchOpenByUser returns all of the user's open inspections
func (s *Store) FetchOpenByUser(userID string) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := s.db.
		Where("user_id = ? AND status = ?", userID, models.InspectionStatusOpen).
		Find(&inspections).Error
	if err != nil {
		return nil, fmt.Errorf("fetch open inspections: %w", err)
	}
	return inspections, nil
}

// InsertInspection creates a new inspection row; the store assigns the id
func (s *Store) InsertInspection(insp *models.Inspection) error {
	if err := s.db.Create(insp).Error; err != nil {
		return fmt.Errorf("insert inspection: %w", err)
	}
	return nil
}

// ForUser returns a write scope bound to one user. Every mutation issued
// through the scope carries the user's ownership clause, so a caller can
// never reach another user's rows whatever ids it was handed.
func (s *Store) ForUser(userID string) *UserScope {
	return &UserScope{s: s, userID: userID}
}

// UserScope is the user-bound write surface the resolution and
// reconciliation commits consume
type UserScope struct {
	s      *Store
	userID string
}

// InsertInspection creates a new inspection row owned by the scope's user
func (u *UserScope) InsertInspection(insp *models.Inspection) error {
	insp.UserID = u.userID
	return u.s.InsertInspection(insp)
}

// UpdateInspectionByID replaces the stored record's fields while preserving
// its identifier and ownership. The lookup is scoped to the user, so an id
// owned by someone else reads as not found.
func (u *UserScope) UpdateInspectionByID(id uint, insp *models.Inspection) error {
	var existing models.Inspection
	if err := u.s.db.Where("user_id = ?", u.userID).First(&existing, id).Error; err != nil {
		return fmt.Errorf("update inspection %d: %w", id, err)
	}

	insp.ID = existing.ID
	insp.UserID = existing.UserID
	insp.CreatedAt = existing.CreatedAt

	if err := u.s.db.Save(insp).Error; err != nil {
		return fmt.Errorf("update inspection %d: %w", id, err)
	}
	return nil
}

// BulkUpdateStatus transitions a batch of the user's inspections to a new
// status. A non-nil completedAt stamps the completion time on every record.
// Ids outside the user's ownership are silently excluded by the clause.
func (u *UserScope) BulkUpdateStatus(ids []uint, status models.InspectionStatus, completedAt *time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}

	err := u.s.db.Model(&models.Inspection{}).
		Where("id IN ? AND user_id = ?", ids, u.userID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("bulk status update: %w", err)
	}
	return nil
}

// GetInspection fetches one inspection owned by the user
func (s *Store) GetInspection(userID string, id uint) (*models.Inspection, error) {
	var insp models.Inspection
	if err := s.db.Where("user_id = ?", userID).First(&insp, id).Error; err != nil {
		return nil, err
	}
	return &insp, nil
}

// ListInspections returns all of the user's inspections, newest first
func (s *Store) ListInspections(userID string) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&inspections).Error
	return inspections, err
}

// DeleteInspection soft-deletes one inspection owned by the user
func (s *Store) DeleteInspection(userID string, id uint) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Inspection{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("inspection %d not found", id)
	}
	return nil
}
