package folio

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       LogLevel
		expected    []string
		notExpected []string
	}{
		{
			name:     "debug level shows all messages",
			level:    LogDebug,
			expected: []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"},
		},
		{
			name:        "warn level hides debug and info",
			level:       LogWarn,
			expected:    []string{"[WARN] warn message", "[ERROR] error message"},
			notExpected: []string{"debug message", "info message"},
		},
		{
			name:        "off hides everything",
			level:       LogOff,
			notExpected: []string{"message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(&buf, tt.level)
			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")

			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.notExpected {
				if strings.Contains(output, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, LogInfo)
	l := base.WithField("path", "a.txt").WithFields(Fields{"count": 2})

	l.Info("loaded")
	if !strings.Contains(buf.String(), "[INFO] loaded count=2 path=a.txt") {
		t.Errorf("output = %q", buf.String())
	}

	// derived loggers share the level of their parent
	base.SetLevel(LogError)
	buf.Reset()
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("derived logger ignored level change: %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogDebug,
		"WARN":    LogWarn,
		"off":     LogOff,
		"unknown": LogInfo,
	}
	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	WriterSink{W: &buf}.Warning("exact text\n")
	if buf.String() != "exact text\n" {
		t.Errorf("Warning() wrote %q", buf.String())
	}
}
