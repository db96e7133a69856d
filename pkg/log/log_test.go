package log_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/edakit/edago/pkg/log"
)

func TestToLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := log.ToLogLevel(tc.in); got != tc.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// capturingProvider records emitted messages for assertions.
type capturingProvider struct {
	messages []string
}

func (p *capturingProvider) Logger(name string) log.Logger {
	return &capturingLogger{p: p}
}

type capturingLogger struct {
	p *capturingProvider
}

func (l *capturingLogger) Debug(msg string, fields ...interface{}) { l.record(msg) }
func (l *capturingLogger) Info(msg string, fields ...interface{})  { l.record(msg) }
func (l *capturingLogger) Warn(msg string, fields ...interface{})  { l.record(msg) }
func (l *capturingLogger) Error(msg string, fields ...interface{}) { l.record(msg) }
func (l *capturingLogger) With(fields ...interface{}) log.Logger   { return l }

func (l *capturingLogger) record(msg string) {
	l.p.messages = append(l.p.messages, msg)
}

func TestSetProvider(t *testing.T) {
	captured := &capturingProvider{}
	log.SetProvider(captured)
	defer log.SetProvider(log.NewZerologProvider(zerolog.InfoLevel))

	logger := log.GetLoggerWithName("test").With(log.ComponentKey, "test")
	logger.Info("hello", log.SamplesKey, 10)

	if len(captured.messages) != 1 || captured.messages[0] != "hello" {
		t.Errorf("captured messages = %v, want [hello]", captured.messages)
	}

	// A nil provider is ignored.
	log.SetProvider(nil)
	log.GetLogger().Info("still routed")
	if len(captured.messages) != 2 {
		t.Errorf("captured messages after nil SetProvider = %v", captured.messages)
	}
}

func TestLogErrorNil(t *testing.T) {
	// Must not panic or emit for a nil error.
	log.LogError(nil, "ignored")
}
