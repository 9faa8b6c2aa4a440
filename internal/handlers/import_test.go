package handlers

import (
	"testing"
	"time"

	"github.com/inspectflow/inspectflow/internal/config"
)

func settingsRouter(imp config.ImporterConfig) *Router {
	return &Router{cfg: &config.Config{Importer: imp}}
}

func TestClassifierConfigFromSettings(t *testing.T) {
	r := settingsRouter(config.ImporterConfig{OverlapMinutes: 90})
	if got := r.classifierConfig().OverlapWindow; got != 90*time.Minute {
		t.Errorf("Configured overlap window should reach the classifier, got %v", got)
	}

	r = settingsRouter(config.ImporterConfig{})
	if got := r.classifierConfig().OverlapWindow; got != 60*time.Minute {
		t.Errorf("Unset overlap window should fall back to the default, got %v", got)
	}
}

func TestMappingConfigFromSettings(t *testing.T) {
	r := settingsRouter(config.ImporterConfig{ExactScore: 90, PartialScore: 70, MinScore: 25})

	cfg := r.mappingConfig()
	if cfg.ExactScore != 90 || cfg.PartialScore != 70 || cfg.MinScore != 25 {
		t.Errorf("Configured scores should reach the mapper, got %+v", cfg)
	}

	cfg = settingsRouter(config.ImporterConfig{}).mappingConfig()
	if cfg.ExactScore != 100 || cfg.PartialScore != 80 || cfg.MinScore != 30 {
		t.Errorf("Unset scores should fall back to the defaults, got %+v", cfg)
	}
}
