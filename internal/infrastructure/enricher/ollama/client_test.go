package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

func newTestEnricher(t *testing.T, handler http.HandlerFunc) *Enricher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tags := map[string]string{"PERSON": "Name", "GPE": "City", "MONEY": "Amount"}
	return New(srv.URL, "test-model", tags, nil)
}

func generateResponse(t *testing.T, w http.ResponseWriter, payload string) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(map[string]string{"response": payload}); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestEnrichRemapsCoarseTags(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		generateResponse(t, w, `{"PERSON":"Ravi Kumar","GPE":"Pune","Delivery Slot":"morning"}`)
	})

	fields, err := enricher.Enrich(context.Background(), "some raw text")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if fields["Name"] != "Ravi Kumar" {
		t.Errorf("PERSON not remapped: %v", fields)
	}
	if fields["City"] != "Pune" {
		t.Errorf("GPE not remapped: %v", fields)
	}
	if fields["Delivery Slot"] != "morning" {
		t.Errorf("unmapped tag should stay verbatim: %v", fields)
	}
	if _, ok := fields["PERSON"]; ok {
		t.Errorf("raw tag leaked through: %v", fields)
	}
}

func TestEnrichFlattensNonStringValues(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, _ *http.Request) {
		generateResponse(t, w, `{"Quantity": 3, "Priority": true, "Empty": "", "Nested": {"x":1}}`)
	})

	fields, err := enricher.Enrich(context.Background(), "text")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if fields["Quantity"] != "3" {
		t.Errorf("Quantity = %q", fields["Quantity"])
	}
	if fields["Priority"] != "true" {
		t.Errorf("Priority = %q", fields["Priority"])
	}
	if _, ok := fields["Empty"]; ok {
		t.Errorf("empty value kept: %v", fields)
	}
	if _, ok := fields["Nested"]; ok {
		t.Errorf("nested value kept: %v", fields)
	}
}

func TestEnrichToleratesChatterAroundJSON(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, _ *http.Request) {
		generateResponse(t, w, "Here you go: {\"Name\":\"Priya\"} hope that helps")
	})

	fields, err := enricher.Enrich(context.Background(), "text")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if fields["Name"] != "Priya" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestEnrichServerErrorIsEnrichmentUnavailable(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})

	_, err := enricher.Enrich(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
}

func TestEnrichMalformedJSONIsEnrichmentUnavailable(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, _ *http.Request) {
		generateResponse(t, w, "no json at all")
	})

	_, err := enricher.Enrich(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
}
