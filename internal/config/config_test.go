package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EXPORT_DIR", "")
	t.Setenv("EXPORT_FILE_PREFIX", "")
	t.Setenv("LEARNING_DB_PATH", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("ENRICHMENT_ENABLED", "")

	cfg := Load()
	if cfg.ExportDir != "./data/exports" {
		t.Fatalf("expected default export dir, got %q", cfg.ExportDir)
	}
	if cfg.ExportFilePrefix != "AI_Data_" {
		t.Fatalf("expected default export prefix, got %q", cfg.ExportFilePrefix)
	}
	if cfg.LearningDBPath != "./data/learning_db.json" {
		t.Fatalf("expected default learning db path, got %q", cfg.LearningDBPath)
	}
	if cfg.NATSSubject != "captures.uploaded" {
		t.Fatalf("expected default nats subject, got %q", cfg.NATSSubject)
	}
	if cfg.EnrichmentEnabled {
		t.Fatalf("expected enrichment disabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("EXPORT_FILE_PREFIX", "Leads_")
	t.Setenv("ENRICHMENT_ENABLED", "true")
	t.Setenv("LABELS_CONFIG_PATH", "/etc/dataclerk/labels.yaml")

	cfg := Load()
	if cfg.ExportFilePrefix != "Leads_" {
		t.Fatalf("expected prefix override, got %q", cfg.ExportFilePrefix)
	}
	if !cfg.EnrichmentEnabled {
		t.Fatalf("expected enrichment enabled")
	}
	if cfg.LabelsConfigPath != "/etc/dataclerk/labels.yaml" {
		t.Fatalf("expected labels config path override, got %q", cfg.LabelsConfigPath)
	}
}

func TestLoadIgnoresMalformedBool(t *testing.T) {
	t.Setenv("ENRICHMENT_ENABLED", "definitely")

	cfg := Load()
	if cfg.EnrichmentEnabled {
		t.Fatalf("malformed bool must fall back to default")
	}
}
