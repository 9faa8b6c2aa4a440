package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inspectflow/inspectflow/internal/importer"
	"github.com/inspectflow/inspectflow/internal/middleware"
)

// ScanReconciliationRequest carries one company's complete fresh export,
// already tokenized, plus the mapping to parse it with
type ScanReconciliationRequest struct {
	Company string                 `json:"company"`
	Mapping importer.ColumnMapping `json:"mapping"`
	Rows    []map[string]string    `json:"rows"`
}

// scanReconciliation compares the full new export against the previously
// tracked open records and returns what silently disappeared, each item
// defaulted to completed. Nothing is written; the operator can walk away
// ("skip for now") and every open record stays untouched.
func (r *Router) scanReconciliation(w http.ResponseWriter, req *http.Request) {
	var scanReq ScanReconciliationRequest
	if err := json.NewDecoder(req.Body).Decode(&scanReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if scanReq.Company == "" {
		respondError(w, http.StatusBadRequest, "Company is required")
		return
	}

	userID := middleware.UserID(req)

	latest := importer.ParseRows(scanReq.Mapping, scanReq.Rows)

	previouslyOpen, err := r.st.FetchOpenByCompany(userID, scanReq.Company)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch open inspections")
		return
	}

	missing := importer.Reconcile(latest, previouslyOpen)

	r.hub.Notify(userID, "reconcile_scanned", map[string]interface{}{
		"company": scanReq.Company,
		"open":    len(previouslyOpen),
		"missing": len(missing),
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"company":    scanReq.Company,
		"open_count": len(previouslyOpen),
		"missing":    missing,
	})
}

// CommitReconciliationRequest carries the operator's confirmed decisions
type CommitReconciliationRequest struct {
	CompletedIDs []uint `json:"completed_ids"`
	RemovedIDs   []uint `json:"removed_ids"`
}

// commitReconciliation applies the bulk status transitions: completed
// records get a completion timestamp of now, removed records are marked
// cancelled. The two batches commit independently.
func (r *Router) commitReconciliation(w http.ResponseWriter, req *http.Request) {
	var commitReq CommitReconciliationRequest
	if err := json.NewDecoder(req.Body).Decode(&commitReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(commitReq.CompletedIDs) == 0 && len(commitReq.RemovedIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Nothing to reconcile")
		return
	}

	userID := middleware.UserID(req)

	now := time.Now()
	err := importer.ApplyReconciliation(r.st.ForUser(userID), commitReq.CompletedIDs, commitReq.RemovedIDs, now)

	r.hub.Notify(userID, "reconcile_committed", map[string]interface{}{
		"completed": len(commitReq.CompletedIDs),
		"removed":   len(commitReq.RemovedIDs),
	})

	response := map[string]interface{}{
		"completed": len(commitReq.CompletedIDs),
		"removed":   len(commitReq.RemovedIDs),
	}
	if err != nil {
		// Partial commits stay committed; report what failed
		response["error"] = err.Error()
		respondJSON(w, http.StatusMultiStatus, response)
		return
	}

	respondJSON(w, http.StatusOK, response)
}
