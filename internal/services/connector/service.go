package connector

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/inspectflow/inspectflow/internal/config"
	"github.com/inspectflow/inspectflow/internal/importer"
	"github.com/inspectflow/inspectflow/internal/models"
	"github.com/inspectflow/inspectflow/internal/store"
	"github.com/inspectflow/inspectflow/internal/websocket"
	"gorm.io/datatypes"
)

// workOrderFields is the export surface requested from the back office.
// Field names deliberately pass through the same mapping inference as
// spreadsheet headers, so schema drift upstream degrades gracefully.
var workOrderFields = []string{
	"property_address", "city", "state", "zip_code",
	"insured_name", "claim_number", "policy_number",
	"due_date", "appointment_date", "inspection_type", "notes",
}

// PullService periodically pulls the full current export from an XML-RPC
// back office and feeds it through the same import and reconciliation
// pipeline as a manual spreadsheet upload. Conflicts and missing records
// are parked in a pending import session for the operator; nothing
// ambiguous is auto-applied.
type PullService struct {
	client *Client
	st     *store.Store
	hub    *websocket.Hub
	cfg    config.ConnectorConfig
	userID string
	stop   chan struct{}
}

// NewPullService creates a new back-office pull service acting on behalf of
// the given operator account
func NewPullService(st *store.Store, hub *websocket.Hub, cfg config.ConnectorConfig, userID string) *PullService {
	return &PullService{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		st:     st,
		hub:    hub,
		cfg:    cfg,
		userID: userID,
		stop:   make(chan struct{}),
	}
}

// Start begins the background pull loop
func (s *PullService) Start() {
	if s.cfg.URL == "" {
		log.Println("Back-office connector disabled: CONNECTOR_URL not configured")
		return
	}

	go func() {
		log.Println("📡 Back-office connector started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ Back-office authentication failed: %v", err)
			return
		}

		// Initial pull delay
		time.Sleep(5 * time.Second)
		s.runPull()

		interval := time.Duration(s.cfg.PullInterval) * time.Minute
		if s.cfg.PullInterval <= 0 {
			interval = 60 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runPull()
			case <-s.stop:
				log.Println("🛑 Back-office connector stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *PullService) Stop() {
	close(s.stop)
}

// runPull fetches the full export and runs it through import + reconciliation
func (s *PullService) runPull() {
	log.Printf("🔄 Connector: Pulling export from %s...", s.cfg.Company)

	raw, err := s.client.FetchWorkOrders("work.order", workOrderFields, 1000)
	if err != nil {
		log.Printf("❌ Connector pull error: %v", err)
		return
	}
	if len(raw) == 0 {
		return
	}

	rows := stringifyRows(raw)

	result := importer.InferMapping(workOrderFields)
	if !result.Usable() {
		log.Printf("❌ Connector: export schema unusable, missing %v", result.MissingRequired)
		return
	}

	records := importer.ParseRows(result.Mapping, rows)
	for i := range records {
		records[i].UserID = s.userID
		records[i].Company = s.cfg.Company
	}

	// Classification runs against every open record the operator tracks,
	// so cross-company collisions at the same property are caught
	openAll, err := s.st.FetchOpenByUser(s.userID)
	if err != nil {
		log.Printf("❌ Connector: %v", err)
		return
	}

	conflicts := importer.ClassifyConflicts(records, openAll, importer.DefaultClassifierConfig())

	// Clean rows commit directly; anything classified waits for the operator
	conflicted := make(map[int]bool, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.IncomingIndex] = true
	}

	scope := s.st.ForUser(s.userID)
	inserted := 0
	for i := range records {
		if conflicted[i] {
			continue
		}
		if err := scope.InsertInspection(&records[i]); err != nil {
			log.Printf("Failed to save pulled inspection: %v", err)
			continue
		}
		inserted++
	}

	if len(conflicts) > 0 {
		if err := s.parkConflicts(records, conflicts); err != nil {
			log.Printf("❌ Connector: %v", err)
		}
	}

	// A connector pull is a full export of one company, so run the
	// reconciliation scan too. Reconciliation stays company-scoped: absence
	// from this export says nothing about other companies' records.
	openCompany, err := s.st.FetchOpenByCompany(s.userID, s.cfg.Company)
	if err != nil {
		log.Printf("❌ Connector: %v", err)
		return
	}
	missing := importer.Reconcile(records, openCompany)

	log.Printf("✅ Connector: %d pulled, %d inserted, %d conflicts parked, %d missing", len(records), inserted, len(conflicts), len(missing))

	s.hub.Notify(s.userID, "connector_pull", map[string]interface{}{
		"company":   s.cfg.Company,
		"pulled":    len(records),
		"inserted":  inserted,
		"conflicts": len(conflicts),
		"missing":   len(missing),
	})
}

// parkConflicts stores the unresolved remainder of a pull as a pending
// import session so the operator resolves it like any manual import
func (s *PullService) parkConflicts(records []models.Inspection, conflicts []importer.ConflictItem) error {
	rowsJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal pending rows: %w", err)
	}
	conflictsJSON, err := json.Marshal(conflicts)
	if err != nil {
		return fmt.Errorf("marshal conflicts: %w", err)
	}

	session := &models.ImportSession{
		ID:            uuid.New().String(),
		UserID:        s.userID,
		Company:       s.cfg.Company,
		Status:        models.ImportSessionPending,
		PendingRows:   datatypes.JSON(rowsJSON),
		Conflicts:     datatypes.JSON(conflictsJSON),
		RowCount:      len(records),
		ConflictCount: len(conflicts),
	}
	return s.st.CreateImportSession(session)
}

// stringifyRows flattens raw XML-RPC field maps into the string rows the
// parser consumes. Unset fields arrive as boolean false and become empty.
func stringifyRows(raw []map[string]interface{}) []map[string]string {
	rows := make([]map[string]string, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		for k, v := range r {
			switch val := v.(type) {
			case string:
				row[k] = val
			case bool:
				if val {
					row[k] = "true"
				}
			case int, int64:
				row[k] = fmt.Sprintf("%d", val)
			case float64:
				row[k] = fmt.Sprintf("%g", val)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
