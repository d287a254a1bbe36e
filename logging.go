package main

import (
	"go.uber.org/zap"
)

// LogLevel mirrors the handful of severities the engine actually
// emits; it is intentionally smaller than zap's own level set.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// ProgressSink is the abstract callback surface the scheduling engine
// reports through (spec.md §9, "Progress callback / logging"). Both
// methods must be cheap and non-blocking; they are called on the hot
// path of the placement loop.
type ProgressSink interface {
	OnProgress(placed, total int, phase string, attempt int)
	OnLog(level LogLevel, msg string, ctx map[string]interface{})
}

// noopSink discards everything; used when the caller supplies no sink.
type noopSink struct{}

func (noopSink) OnProgress(placed, total int, phase string, attempt int)   {}
func (noopSink) OnLog(level LogLevel, msg string, ctx map[string]interface{}) {}

// NewNoopSink returns a ProgressSink that does nothing.
func NewNoopSink() ProgressSink { return noopSink{} }

// zapSink adapts a zap.SugaredLogger into a ProgressSink. The CLI
// passes it to every component it builds (see cli.go); its own
// top-level summary lines go through stdlib log. Components given a
// nil sink fall back to the no-op sink instead.
type zapSink struct {
	log *zap.SugaredLogger
}

// NewZapSink builds a ProgressSink backed by a production zap logger.
// Returns a no-op sink if the logger cannot be constructed (should
// only happen under a misconfigured environment).
func NewZapSink(verbose bool) ProgressSink {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return noopSink{}
	}
	return &zapSink{log: logger.Sugar()}
}

func (s *zapSink) OnProgress(placed, total int, phase string, attempt int) {
	s.log.Infow("scheduling progress", "placed", placed, "total", total, "phase", phase, "attempt", attempt)
}

func (s *zapSink) OnLog(level LogLevel, msg string, ctx map[string]interface{}) {
	fields := make([]interface{}, 0, len(ctx)*2)
	for k, v := range ctx {
		fields = append(fields, k, v)
	}
	switch level {
	case LogDebug:
		s.log.Debugw(msg, fields...)
	case LogInfo:
		s.log.Infow(msg, fields...)
	case LogWarn:
		s.log.Warnw(msg, fields...)
	case LogError:
		s.log.Errorw(msg, fields...)
	}
}
