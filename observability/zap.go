package observability

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapObserver writes events to a zap.Logger, mirroring SlogObserver's
// field layout.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver writes to logger, or to zap.L() as it stands at event time
// when logger is nil. A process that later calls zap.ReplaceGlobals is picked
// up without re-registering the observer.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{logger: logger}
}

// ZapLevel maps l to the corresponding zapcore.Level.
func (l Level) ZapLevel() zapcore.Level {
	switch {
	case l <= 8:
		return zapcore.DebugLevel
	case l <= 12:
		return zapcore.InfoLevel
	case l <= 16:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func (o *ZapObserver) OnEvent(_ context.Context, event Event) {
	logger := o.logger
	if logger == nil {
		logger = zap.L()
	}
	ce := logger.Check(event.Level.ZapLevel(), string(event.Type))
	if ce == nil {
		return
	}

	fields := make([]zap.Field, 0, len(event.Data)+2)
	fields = append(fields, zap.String("source", event.Source))
	if !event.Timestamp.IsZero() {
		fields = append(fields, zap.Time("ts_event", event.Timestamp))
	}
	for _, k := range event.keys() {
		fields = append(fields, zap.Any(k, event.Data[k]))
	}
	ce.Write(fields...)
}
