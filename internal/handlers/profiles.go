package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/inspectflow/inspectflow/internal/importer"
	"github.com/inspectflow/inspectflow/internal/middleware"
	"github.com/inspectflow/inspectflow/internal/models"
	"gorm.io/datatypes"
)

// SaveProfileRequest promotes a confirmed mapping to a saved company profile
type SaveProfileRequest struct {
	Company  string                 `json:"company"`
	Mapping  importer.ColumnMapping `json:"mapping"`
	Unmapped []string               `json:"unmapped"`
}

// listProfiles returns all of the user's saved mapping profiles
func (r *Router) listProfiles(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	profiles, err := r.st.ListCompanyProfiles(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch profiles")
		return
	}
	respondJSON(w, http.StatusOK, profiles)
}

// saveProfile upserts the mapping profile for one company so the next
// import from the same export format starts pre-mapped
func (r *Router) saveProfile(w http.ResponseWriter, req *http.Request) {
	var saveReq SaveProfileRequest
	if err := json.NewDecoder(req.Body).Decode(&saveReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if saveReq.Company == "" || len(saveReq.Mapping) == 0 {
		respondError(w, http.StatusBadRequest, "Company and mapping are required")
		return
	}

	mappingJSON, err := json.Marshal(saveReq.Mapping)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode mapping")
		return
	}
	unmappedJSON, err := json.Marshal(saveReq.Unmapped)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode unmapped columns")
		return
	}

	profile := &models.CompanyProfile{
		UserID:          middleware.UserID(req),
		Company:         saveReq.Company,
		Mapping:         datatypes.JSON(mappingJSON),
		UnmappedColumns: datatypes.JSON(unmappedJSON),
	}
	if err := r.st.SaveCompanyProfile(profile); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	respondJSON(w, http.StatusCreated, profile)
}
