// Package log provides the structured logging facade used across edago.
//
// It is a thin layer over zerolog that gives library code a stable Logger
// interface with key/value fields, plus shared field keys so output stays
// uniform between packages:
//
//	logger := log.GetLoggerWithName("dataset").With(
//	    log.ComponentKey, "dataset",
//	)
//	logger.Info("Meta recomputed", log.FeaturesKey, nFeatures)
//
// Applications call SetupLogger once to choose the global level; library
// packages only ever hold a Logger.
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// Shared structured-field keys.
const (
	OperationKey  = "operation"
	PhaseKey      = "phase"
	ComponentKey  = "component"
	ModelNameKey  = "model"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	ColumnsKey    = "columns"
	TargetKey     = "target"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
	PValueKey     = "p_value"
	ThresholdKey  = "threshold"
)

// Operation values for OperationKey.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationRecompute = "recompute"
	OperationSelect    = "select"
)

// Phase values for PhaseKey.
const (
	PhaseTraining  = "training"
	PhaseInference = "inference"
	PhaseAnalysis  = "analysis"
)

// Logger is the structured logger handed to library components. Fields are
// alternating key/value pairs; keys must be strings.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider creates named loggers. The default provider is backed by
// zerolog writing to stderr.
type LoggerProvider interface {
	Logger(name string) Logger
}

type zerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider returns a LoggerProvider writing console-formatted
// output to stderr at the given level.
func NewZerologProvider(level zerolog.Level) LoggerProvider {
	root := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return &zerologProvider{root: root}
}

func (p *zerologProvider) Logger(name string) Logger {
	return &zerologLogger{l: p.root.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...interface{}) {
	emit(z.l.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...interface{}) {
	emit(z.l.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...interface{}) {
	emit(z.l.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...interface{}) {
	emit(z.l.Error(), msg, fields)
}

func (z *zerologLogger) With(fields ...interface{}) Logger {
	ctx := z.l.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{l: ctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}

// ToLogLevel parses a level name ("debug", "info", "warn", "error"); unknown
// names fall back to info.
func ToLogLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

var provider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)

// SetupLogger installs the default zerolog provider at the given level.
// Intended to be called once by the application.
func SetupLogger(level string) {
	provider = NewZerologProvider(ToLogLevel(level))
}

// SetProvider replaces the global provider, for applications that want to
// route library logs elsewhere.
func SetProvider(p LoggerProvider) {
	if p != nil {
		provider = p
	}
}

// GetLogger returns the root library logger.
func GetLogger() Logger {
	return provider.Logger("edago")
}

// GetLoggerWithName returns a named logger from the global provider.
func GetLoggerWithName(name string) Logger {
	return provider.Logger(name)
}

// LogError logs err with a message through the root logger. A nil err is a
// no-op.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error(msg, "error", err.Error())
}
