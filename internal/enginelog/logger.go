// Package enginelog provides structured zap-backed logging for a
// patch transaction's lifecycle: start, per-modification apply/skip,
// commit, and abort events.
package enginelog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger scoped to one patch invocation.
type Logger struct {
	zap *zap.Logger
}

// New creates a Logger that writes JSON (or, in development mode,
// human-readable) records to logPath. An empty logPath disables
// logging entirely.
func New(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if development {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)
	return &Logger{zap: zap.New(core)}, nil
}

// Close flushes any buffered log entries.
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// TransactionStarted logs the start of a patch application.
func (l *Logger) TransactionStarted(transactionID, patchPath string, fileCount int) {
	l.zap.Info("transaction started",
		zap.String("transaction_id", transactionID),
		zap.String("patch_path", patchPath),
		zap.Int("file_count", fileCount),
	)
}

// ModificationApplied logs a single successful (non-skipped)
// modification.
func (l *Logger) ModificationApplied(filePath string, index int, action string) {
	l.zap.Info("modification applied",
		zap.String("file_path", filePath),
		zap.Int("modification_index", index),
		zap.String("action", action),
	)
}

// ModificationSkipped logs an idempotent no-op.
func (l *Logger) ModificationSkipped(filePath string, index int, action string) {
	l.zap.Info("modification skipped (idempotent)",
		zap.String("file_path", filePath),
		zap.Int("modification_index", index),
		zap.String("action", action),
	)
}

// TransactionCommitted logs a successful commit.
func (l *Logger) TransactionCommitted(transactionID string, filesWritten int) {
	l.zap.Info("transaction committed",
		zap.String("transaction_id", transactionID),
		zap.Int("files_written", filesWritten),
	)
}

// TransactionAborted logs an aborted transaction and the error that
// caused it.
func (l *Logger) TransactionAborted(transactionID string, err error) {
	l.zap.Error("transaction aborted",
		zap.String("transaction_id", transactionID),
		zap.Error(err),
	)
}
