package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/inspectflow/inspectflow/internal/importer"
	"github.com/inspectflow/inspectflow/internal/middleware"
	"github.com/inspectflow/inspectflow/internal/models"
	"gorm.io/datatypes"
)

// uploadCSV tokenizes a raw comma-delimited export into a header list and
// row dictionaries, and returns them together with an inferred mapping.
// This is the only place the service touches raw file content; the engine
// itself only ever sees headers and row maps.
func (r *Router) uploadCSV(w http.ResponseWriter, req *http.Request) {
	reader := csv.NewReader(req.Body)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read header row")
		return
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A ragged row still gets imported with what it has
			continue
		}
		row := make(map[string]string, len(headers))
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = value
			}
		}
		rows = append(rows, row)
	}

	result := importer.InferMappingWithConfig(headers, r.mappingConfig())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"headers":          headers,
		"rows":             rows,
		"mapping":          result.Mapping,
		"missing_required": result.MissingRequired,
		"unmapped":         result.Unmapped,
		"usable":           result.Usable(),
	})
}

// InferMappingRequest carries a header list and optionally the company it
// came from, so a saved profile can short-circuit inference
type InferMappingRequest struct {
	Headers []string `json:"headers"`
	Company string   `json:"company"`
}

// inferMapping proposes a column mapping for a header list. If the company
// has a saved profile whose mapping covers these headers, that profile is
// returned instead of a fresh inference.
func (r *Router) inferMapping(w http.ResponseWriter, req *http.Request) {
	var mapReq InferMappingRequest
	if err := json.NewDecoder(req.Body).Decode(&mapReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(mapReq.Headers) == 0 {
		respondError(w, http.StatusBadRequest, "Headers are required")
		return
	}

	userID := middleware.UserID(req)

	if mapReq.Company != "" {
		if profile, err := r.st.GetCompanyProfile(userID, mapReq.Company); err == nil {
			var saved importer.ColumnMapping
			if err := json.Unmarshal(profile.Mapping, &saved); err == nil && coversHeaders(saved, mapReq.Headers) {
				respondJSON(w, http.StatusOK, map[string]interface{}{
					"mapping":          saved,
					"missing_required": []string{},
					"unmapped":         unmappedHeaders(saved, mapReq.Headers),
					"usable":           true,
					"source":           "profile",
				})
				return
			}
		}
	}

	result := importer.InferMappingWithConfig(mapReq.Headers, r.mappingConfig())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"mapping":          result.Mapping,
		"missing_required": result.MissingRequired,
		"unmapped":         result.Unmapped,
		"usable":           result.Usable(),
		"source":           "inferred",
	})
}

// ScanImportRequest carries a confirmed mapping plus the tokenized rows of
// one import batch
type ScanImportRequest struct {
	Company string                 `json:"company"`
	Mapping importer.ColumnMapping `json:"mapping"`
	Rows    []map[string]string    `json:"rows"`
}

// scanImport parses the batch into canonical records, classifies each
// against the stored open records, and parks everything in a pending
// session for the commit step
func (r *Router) scanImport(w http.ResponseWriter, req *http.Request) {
	var scanReq ScanImportRequest
	if err := json.NewDecoder(req.Body).Decode(&scanReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(scanReq.Mapping) == 0 || len(scanReq.Rows) == 0 {
		respondError(w, http.StatusBadRequest, "Mapping and rows are required")
		return
	}

	userID := middleware.UserID(req)

	records := importer.ParseRows(scanReq.Mapping, scanReq.Rows)
	for i := range records {
		records[i].UserID = userID
		if records[i].Company == "" {
			records[i].Company = scanReq.Company
		}
	}

	// Classification sees every open record the user tracks, whatever the
	// company: cross-company address matches and schedule overlaps are
	// exactly what the classifier exists to catch.
	existing, err := r.st.FetchOpenByUser(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch existing inspections")
		return
	}

	conflicts := importer.ClassifyConflicts(records, existing, r.classifierConfig())

	rowsJSON, err := json.Marshal(records)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode batch")
		return
	}
	conflictsJSON, err := json.Marshal(conflicts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode conflicts")
		return
	}

	session := &models.ImportSession{
		ID:            uuid.New().String(),
		UserID:        userID,
		Company:       scanReq.Company,
		Status:        models.ImportSessionPending,
		PendingRows:   datatypes.JSON(rowsJSON),
		Conflicts:     datatypes.JSON(conflictsJSON),
		RowCount:      len(records),
		ConflictCount: len(conflicts),
	}
	if err := r.st.CreateImportSession(session); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create import session")
		return
	}

	r.hub.Notify(userID, "import_scanned", map[string]interface{}{
		"session_id": session.ID,
		"rows":       len(records),
		"conflicts":  len(conflicts),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":  session.ID,
		"conflicts":   conflicts,
		"row_count":   len(records),
		"clean_count": len(records) - len(conflicts),
	})
}

// CommitImportRequest carries the operator's conflict decisions for one
// pending session
type CommitImportRequest struct {
	SessionID   string                        `json:"session_id"`
	Resolutions []importer.ConflictResolution `json:"resolutions"`
}

// commitImport applies the operator's decisions: clean rows are inserted,
// each resolution translates to its store mutation, and every item's
// outcome is reported individually. Already-applied items stay applied if a
// later one fails.
func (r *Router) commitImport(w http.ResponseWriter, req *http.Request) {
	var commitReq CommitImportRequest
	if err := json.NewDecoder(req.Body).Decode(&commitReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID := middleware.UserID(req)

	session, err := r.st.GetImportSession(userID, commitReq.SessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Import session not found")
		return
	}
	if session.Status != models.ImportSessionPending {
		respondError(w, http.StatusConflict, "Import session already "+string(session.Status))
		return
	}

	var records []models.Inspection
	if err := json.Unmarshal(session.PendingRows, &records); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode session rows")
		return
	}
	var conflicts []importer.ConflictItem
	if err := json.Unmarshal(session.Conflicts, &conflicts); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to decode session conflicts")
		return
	}

	// Pin every resolution to the record its conflict was classified with;
	// a decision for a row the scan never flagged is rejected
	resolutions, err := importer.CanonicalizeResolutions(conflicts, commitReq.Resolutions)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Every conflicted row needs a decision before anything commits
	decided := make(map[int]bool, len(resolutions))
	for _, res := range resolutions {
		decided[res.IncomingIndex] = true
	}
	conflicted := make(map[int]bool, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.IncomingIndex] = true
		if !decided[c.IncomingIndex] {
			respondError(w, http.StatusBadRequest, "Every conflict needs a resolution before commit")
			return
		}
	}

	scope := r.st.ForUser(userID)

	// 1. Insert the rows that never collided with anything
	inserted := 0
	insertErrors := make([]string, 0)
	for i := range records {
		if conflicted[i] {
			continue
		}
		if err := scope.InsertInspection(&records[i]); err != nil {
			insertErrors = append(insertErrors, err.Error())
			continue
		}
		inserted++
	}

	// 2. Apply the operator's decisions item by item
	results := importer.ApplyResolutions(scope, records, resolutions)

	session.Status = models.ImportSessionCommitted
	if err := r.st.UpdateImportSession(session); err != nil {
		respondError(w, http.StatusInternalServerError, "Commit applied but session update failed")
		return
	}

	r.hub.Notify(userID, "import_committed", map[string]interface{}{
		"session_id": session.ID,
		"inserted":   inserted,
		"resolved":   len(results),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":    session.ID,
		"inserted":      inserted,
		"insert_errors": insertErrors,
		"resolutions":   results,
		"tally":         importer.TallyActions(resolutions),
	})
}

// getImportSession returns one pending or committed session
func (r *Router) getImportSession(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	userID := middleware.UserID(req)

	session, err := r.st.GetImportSession(userID, vars["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Import session not found")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// classifierConfig builds the classification policy from configuration
func (r *Router) classifierConfig() importer.ClassifierConfig {
	cfg := importer.DefaultClassifierConfig()
	if r.cfg.Importer.OverlapMinutes > 0 {
		cfg.OverlapWindow = time.Duration(r.cfg.Importer.OverlapMinutes) * time.Minute
	}
	return cfg
}

// mappingConfig builds the inference scoring constants from configuration.
// Zero values fall back to the engine defaults.
func (r *Router) mappingConfig() importer.MappingConfig {
	cfg := importer.DefaultMappingConfig()
	imp := r.cfg.Importer
	if imp.ExactScore > 0 {
		cfg.ExactScore = imp.ExactScore
	}
	if imp.PartialScore > 0 {
		cfg.PartialScore = imp.PartialScore
	}
	if imp.MinScore > 0 {
		cfg.MinScore = imp.MinScore
	}
	return cfg
}

// coversHeaders reports whether every header a saved mapping references is
// present in the incoming header list
func coversHeaders(mapping importer.ColumnMapping, headers []string) bool {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}
	for _, header := range mapping {
		if !have[header] {
			return false
		}
	}
	return len(mapping) > 0
}

// unmappedHeaders lists the incoming headers a saved mapping does not claim
func unmappedHeaders(mapping importer.ColumnMapping, headers []string) []string {
	claimed := make(map[string]bool, len(mapping))
	for _, header := range mapping {
		claimed[header] = true
	}
	unmapped := make([]string, 0)
	for _, h := range headers {
		if !claimed[h] {
			unmapped = append(unmapped, h)
		}
	}
	return unmapped
}
