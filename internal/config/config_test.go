package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" || cfg.JSONLog || cfg.CacheSize != 64 || cfg.ExportFormat != "png" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"FOX5_LOG_LEVEL":     "trace",
		"FOX5_JSON_LOG":      "1",
		"FOX5_CACHE_SIZE":    "8",
		"FOX5_EXPORT_FORMAT": "BMP",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "trace" || !cfg.JSONLog || cfg.CacheSize != 8 || cfg.ExportFormat != "bmp" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	testCases := []struct {
		name string
		vars map[string]string
		want string
	}{
		{name: "non-numeric cache", vars: map[string]string{"FOX5_CACHE_SIZE": "lots"}, want: "environment"},
		{name: "negative cache", vars: map[string]string{"FOX5_CACHE_SIZE": "-1"}, want: "FOX5_CACHE_SIZE"},
		{name: "unknown format", vars: map[string]string{"FOX5_EXPORT_FORMAT": "gif"}, want: "FOX5_EXPORT_FORMAT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(tc.vars)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
