package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
	"github.com/kdworks/dataclerk/internal/observability/metrics"
)

const serviceName = "api"

// RecordService is what the synchronous endpoints need from the save use
// case: filing records and resolving period tables.
type RecordService interface {
	ports.RecordSaver
	ports.StoreOpener
}

type Router struct {
	analyzer ports.RecordAnalyzer
	records  RecordService
	ingestor ports.CaptureIngestor
	captures ports.CaptureReader
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	analyzer ports.RecordAnalyzer,
	records RecordService,
	ingestor ports.CaptureIngestor,
	captures ports.CaptureReader,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		analyzer: analyzer,
		records:  records,
		ingestor: ingestor,
		captures: captures,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/analyze", rt.analyzeText)
	mux.HandleFunc("/v1/records", rt.saveRecord)
	mux.HandleFunc("/v1/exports", rt.openStore)
	mux.HandleFunc("/v1/exports/", rt.openStore)
	mux.HandleFunc("/v1/captures", rt.uploadCapture)
	mux.HandleFunc("/v1/captures/", rt.getCaptureByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	record, err := rt.analyzer.Analyze(r.Context(), req.Text)
	if rt.metrics != nil {
		fieldCount := 0
		if record != nil {
			fieldCount = record.Len()
		}
		rt.metrics.RecordAnalyze(serviceName, fieldCount, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fields":      record.Map(),
		"field_order": record.Fields(),
	})
}

func (rt *Router) saveRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	receipt, err := rt.records.Save(r.Context(), domain.RecordFromMap(req.Fields))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSave(serviceName, receipt.Recovered)
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (rt *Router) openStore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	periodKey := strings.TrimPrefix(r.URL.Path, "/v1/exports")
	periodKey = strings.Trim(periodKey, "/")

	location, resolvedKey, err := rt.records.OpenStore(r.Context(), periodKey)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"location":   location,
		"period_key": resolvedKey,
	})
}

func (rt *Router) uploadCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	capture, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, capture)
}

func (rt *Router) getCaptureByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/captures/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capture id is required"})
		return
	}

	capture, err := rt.captures.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capture)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
