package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/inspectflow/inspectflow/internal/middleware"
	"github.com/inspectflow/inspectflow/internal/models"
	"github.com/inspectflow/inspectflow/internal/services/printer"
)

// listInspections returns all of the user's inspections
func (r *Router) listInspections(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	inspections, err := r.st.ListInspections(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch inspections")
		return
	}
	respondJSON(w, http.StatusOK, inspections)
}

// getInspection returns a single inspection
func (r *Router) getInspection(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 64)
	userID := middleware.UserID(req)

	insp, err := r.st.GetInspection(userID, uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Inspection not found")
		return
	}
	respondJSON(w, http.StatusOK, insp)
}

// createInspection creates a single inspection directly (manual entry)
func (r *Router) createInspection(w http.ResponseWriter, req *http.Request) {
	var insp models.Inspection
	if err := json.NewDecoder(req.Body).Decode(&insp); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	insp.ID = 0
	insp.UserID = middleware.UserID(req)
	if insp.Status == "" {
		insp.Status = models.InspectionStatusOpen
	}

	if err := r.st.InsertInspection(&insp); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create inspection")
		return
	}
	respondJSON(w, http.StatusCreated, insp)
}

// updateInspection replaces an inspection's fields
func (r *Router) updateInspection(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 64)
	userID := middleware.UserID(req)

	// Ownership check before the write
	if _, err := r.st.GetInspection(userID, uint(id)); err != nil {
		respondError(w, http.StatusNotFound, "Inspection not found")
		return
	}

	var insp models.Inspection
	if err := json.NewDecoder(req.Body).Decode(&insp); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := r.st.ForUser(userID).UpdateInspectionByID(uint(id), &insp); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update inspection")
		return
	}
	respondJSON(w, http.StatusOK, insp)
}

// deleteInspection soft-deletes an inspection
func (r *Router) deleteInspection(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 64)
	userID := middleware.UserID(req)

	if err := r.st.DeleteInspection(userID, uint(id)); err != nil {
		respondError(w, http.StatusNotFound, "Inspection not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Inspection deleted"})
}

// getWorkOrderSheet renders the inspection as a printable PDF work order
func (r *Router) getWorkOrderSheet(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 64)
	userID := middleware.UserID(req)

	insp, err := r.st.GetInspection(userID, uint(id))
	if err != nil {
		respondError(w, http.StatusNotFound, "Inspection not found")
		return
	}

	pdfBytes, err := printer.GenerateWorkOrderPDF(insp)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate work order")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=work-order-%d.pdf", insp.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
