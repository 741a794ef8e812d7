package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		dev  bool
		want zapcore.Level
	}{
		{"warn", false, zapcore.WarnLevel},
		{"ERROR", true, zapcore.ErrorLevel},
		{"", true, zapcore.DebugLevel},
		{"", false, zapcore.InfoLevel},
		{"chatty", false, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name, tt.dev); got != tt.want {
			t.Errorf("ParseLevel(%q, %v) = %v, want %v", tt.name, tt.dev, got, tt.want)
		}
	}
}

func TestNewWritesFile(t *testing.T) {
	log := New(Options{Level: "info", File: t.TempDir() + "/api.log"})
	log.Info("hello")
	_ = log.Sync()
}
