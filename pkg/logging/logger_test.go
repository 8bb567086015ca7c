package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantLevel string
	}{
		{name: "empty level defaults to info", cfg: Config{}, wantLevel: "info"},
		{name: "level is normalized", cfg: Config{Level: " DEBUG "}, wantLevel: "debug"},
		{name: "unknown level", cfg: Config{Level: "verbose"}, wantErr: true},
		{name: "negative max size", cfg: Config{Level: "info", MaxSizeMB: -1}, wantErr: true},
		{name: "negative max backups", cfg: Config{Level: "info", MaxBackups: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.cfg.Level != tt.wantLevel {
				t.Errorf("expected level %q, got %q", tt.wantLevel, tt.cfg.Level)
			}
		})
	}
}

func TestNewLogger_WritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()

	logger, closeFn, err := NewLogger(Config{Level: "info", Directory: dir})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	logger.Info("request admitted", "request_id", "test-1")
	logger.Error("request rejected", "reason", "length_exceeded")

	if err := closeFn(); err != nil {
		t.Fatalf("failed to close sink: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("failed to read diagnostic file: %v", err)
	}

	for _, want := range []string{"request admitted", "request rejected", "length_exceeded"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("diagnostic file missing %q", want)
		}
	}
}

func TestNewLogger_LevelFiltersRecords(t *testing.T) {
	dir := t.TempDir()

	logger, closeFn, err := NewLogger(Config{Level: "error", Directory: dir})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	logger.Info("should be filtered")
	logger.Error("should pass")

	if err := closeFn(); err != nil {
		t.Fatalf("failed to close sink: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("failed to read diagnostic file: %v", err)
	}

	if strings.Contains(string(content), "should be filtered") {
		t.Errorf("info record leaked through error-level logger")
	}
	if !strings.Contains(string(content), "should pass") {
		t.Errorf("error record missing from diagnostic file")
	}
}

func TestNewLogger_NoSinksDiscards(t *testing.T) {
	logger, closeFn, err := NewLogger(Config{Level: "info"})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			t.Errorf("close returned error: %v", err)
		}
	}()

	// Must not panic and must not create files anywhere.
	logger.Info("goes nowhere")
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	_, closeFn, err := NewLogger(Config{Level: "info", Directory: dir})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = closeFn() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
