package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogrusLogger adapts a logrus instance to the Logger interface. It is the
// default production logger: structured output to stdout, with optional
// size-capped rotating file output via lumberjack.
// Safe for concurrent use across goroutines.
type LogrusLogger struct {
	logger  *logrus.Logger
	rotator *lumberjack.Logger
}

var _ Logger = (*LogrusLogger)(nil)

// NewLogrusLogger creates a logrus-backed logger writing to stdout.
func NewLogrusLogger() *LogrusLogger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &LogrusLogger{logger: l}
}

// NewRotatingLogrusLogger creates a logrus-backed logger that writes to both
// stdout and a rotating log file capped at maxSizeMB per file.
func NewRotatingLogrusLogger(filepath string, maxSizeMB int) *LogrusLogger {
	rotator := &lumberjack.Logger{
		Filename:   filepath,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
	}

	l := logrus.New()
	l.SetOutput(io.MultiWriter(os.Stdout, rotator))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &LogrusLogger{logger: l, rotator: rotator}
}

func (l *LogrusLogger) Type() LoggerType {
	return LoggerTypeLogrus
}

func (l *LogrusLogger) Printf(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l *LogrusLogger) Println(message string) {
	l.logger.Info(message)
}

// Close closes the rotating file writer if one is configured.
func (l *LogrusLogger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}
