// Package ollama implements the entity-enricher boundary against a local
// Ollama instance. Enrichment is strictly additive and best-effort: every
// failure surfaces as domain.ErrEnrichmentUnavailable and the pipeline
// carries on with pattern and key:value coverage only.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/infrastructure/resilience"
)

type Enricher struct {
	baseURL    string
	model      string
	tags       map[string]string
	httpClient *http.Client
	executor   *resilience.Executor
}

// New builds an enricher. tags translates coarse collaborator tags
// (PERSON, GPE, MONEY, ...) to canonical field names; unmapped tags are
// kept verbatim as dynamic field names.
func New(baseURL, model string, tags map[string]string, executor *resilience.Executor) *Enricher {
	return &Enricher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		tags:       tags,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// Enrich asks the model for a flat JSON object of field/value pairs. The
// caller merges the result without overriding already-resolved fields.
func (e *Enricher) Enrich(ctx context.Context, text string) (map[string]string, error) {
	var raw string
	call := func(callCtx context.Context) error {
		var err error
		raw, err = e.generateJSON(callCtx, buildExtractionPrompt(text))
		return err
	}

	var err error
	if e.executor != nil {
		err = e.executor.Execute(ctx, "enricher.extract", call, classifyEnricherError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrEnrichmentUnavailable, "enrich", err)
	}

	fields, err := parseFieldObject(raw)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEnrichmentUnavailable, "enrich", err)
	}
	return e.remapTags(fields), nil
}

func (e *Enricher) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  e.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := e.postJSON(ctx, "/api/generate", reqBody, &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

// parseFieldObject flattens the model reply to string values, dropping
// empties and anything nested it was not asked for.
func parseFieldObject(raw string) (map[string]string, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w", err)
	}

	fields := make(map[string]string, len(parsed))
	for name, value := range parsed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				fields[name] = trimmed
			}
		case float64:
			fields[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[name] = strconv.FormatBool(v)
		}
	}
	return fields, nil
}

func (e *Enricher) remapTags(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))

	// deterministic iteration so a canonical field keeps the same winner
	// when the model emits both a tag and its canonical name
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := name
		if canonical, ok := e.tags[strings.ToUpper(name)]; ok {
			field = canonical
		}
		if _, taken := out[field]; taken {
			continue
		}
		out[field] = fields[name]
	}
	return out
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
