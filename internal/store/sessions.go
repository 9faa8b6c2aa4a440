package store

import (
	"fmt"

	"github.com/inspectflow/inspectflow/internal/models"
	"gorm.io/gorm/clause"
)

// CreateImportSession persists a scanned batch awaiting operator decisions
func (s *Store) CreateImportSession(session *models.ImportSession) error {
	if err := s.db.Create(session).Error; err != nil {
		return fmt.Errorf("create import session: %w", err)
	}
	return nil
}

// GetImportSession fetches a session owned by the user
func (s *Store) GetImportSession(userID, id string) (*models.ImportSession, error) {
	var session models.ImportSession
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateImportSession saves session state changes
func (s *Store) UpdateImportSession(session *models.ImportSession) error {
	if err := s.db.Save(session).Error; err != nil {
		return fmt.Errorf("update import session: %w", err)
	}
	return nil
}

// SaveCompanyProfile upserts the saved mapping profile for one company
func (s *Store) SaveCompanyProfile(profile *models.CompanyProfile) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "company"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("save company profile: %w", err)
	}
	return nil
}

// GetCompanyProfile fetches the saved mapping profile for one company
func (s *Store) GetCompanyProfile(userID, company string) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := s.db.Where("user_id = ? AND LOWER(company) = LOWER(?)", userID, company).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListCompanyProfiles returns all of the user's saved mapping profiles
func (s *Store) ListCompanyProfiles(userID string) ([]models.CompanyProfile, error) {
	var profiles []models.CompanyProfile
	err := s.db.Where("user_id = ?", userID).Order("company ASC").Find(&profiles).Error
	return profiles, err
}
