package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 33554432 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 33554432)
	}
	if cfg.Upload.MaxConcurrent != 5 {
		t.Errorf("Upload.MaxConcurrent = %d, want 5", cfg.Upload.MaxConcurrent)
	}
	if cfg.Upload.QueueWait != 10*time.Second {
		t.Errorf("Upload.QueueWait = %v, want 10s", cfg.Upload.QueueWait)
	}
	if cfg.Engine.AnalysisMode != "fast" {
		t.Errorf("Engine.AnalysisMode = %q, want %q", cfg.Engine.AnalysisMode, "fast")
	}
	if cfg.Engine.ValidationMode != "full" {
		t.Errorf("Engine.ValidationMode = %q, want %q", cfg.Engine.ValidationMode, "full")
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("ENGINE_ANALYSIS_MODE", "deep")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("ENGINE_ANALYSIS_MODE")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Engine.AnalysisMode != "deep" {
		t.Errorf("Engine.AnalysisMode = %q, want %q", cfg.Engine.AnalysisMode, "deep")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	defer os.Unsetenv("SERVER_READ_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("ENGINE_NUMERIC_BRANDS", "7UP, 5-Star , No2 Cream")
	defer os.Unsetenv("ENGINE_NUMERIC_BRANDS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"7UP", "5-Star", "No2 Cream"}
	if len(cfg.Engine.NumericBrands) != len(expected) {
		t.Fatalf("NumericBrands length = %d, want %d", len(cfg.Engine.NumericBrands), len(expected))
	}
	for i, v := range expected {
		if cfg.Engine.NumericBrands[i] != v {
			t.Errorf("NumericBrands[%d] = %q, want %q", i, cfg.Engine.NumericBrands[i], v)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_InvalidAnalysisMode(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.AnalysisMode = "thorough"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid analysis mode")
	}
	if !contains(err.Error(), "ENGINE_ANALYSIS_MODE") {
		t.Errorf("error should mention ENGINE_ANALYSIS_MODE: %v", err)
	}
}

func TestValidate_InvalidValidationMode(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.ValidationMode = "strict"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid validation mode")
	}
	if !contains(err.Error(), "ENGINE_VALIDATION_MODE") {
		t.Errorf("error should mention ENGINE_VALIDATION_MODE: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, QueueWait: time.Second},
		Engine:  EngineConfig{AnalysisMode: "fast", ValidationMode: "full"},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ParseLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsHelper(s, substr))
}

func containsHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
