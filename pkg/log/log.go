package log

import (
	contextPkg "SikshaMantra/pkg/context"
	"fmt"
	"golang.org/x/net/context"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const RequestIDKey = "request_id"

type Fields = logrus.Fields

func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(levelFromEnv())

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        false,
			TimestampFormat: "02 Jan 06 - 15:04",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}

		appEnv := os.Getenv("APP_ENV")
		if appEnv != "test" {
			fileWriter := &lumberjack.Logger{
				Filename:   fmt.Sprintf("./storage/logs/sikshamantra-%s.log", time.Now().Format("2006-01-02")),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			}
			writers = append(writers, fileWriter)
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func std() *logrus.Logger {
	return NewLogger()
}

// levelFromEnv reads LOG_LEVEL and falls back to debug outside production.
func levelFromEnv() logrus.Level {
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		return lvl
	}
	if os.Getenv("APP_ENV") == "production" {
		return logrus.InfoLevel
	}
	return logrus.DebugLevel
}

func Info(fields Fields, msg string) {
	if fields == nil {
		fields = Fields{}
	}
	std().WithFields(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	if fields == nil {
		fields = Fields{}
	}
	std().WithFields(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	if fields == nil {
		fields = Fields{}
	}
	std().WithFields(fields).Error(msg)
}

// TraceID stores a trace id in fields and returns it. The request id is
// reused when there is one so a client report can be matched to the logs.
func TraceID(fields Fields) string {
	if reqID, ok := fields[RequestIDKey].(string); ok && reqID != "" && reqID != "unknown" {
		fields["trace_id"] = reqID
		return reqID
	}

	traceID := "unknown"
	if id, err := uuid.NewRandom(); err == nil {
		traceID = id.String()
	}
	fields["trace_id"] = traceID
	return traceID
}

// FromContext returns an entry of logger carrying the request and session ids
// found in ctx.
func FromContext(logger *logrus.Logger, ctx context.Context) *logrus.Entry {
	if logger == nil {
		logger = std()
	}

	entry := logger.WithField(RequestIDKey, contextPkg.GetRequestID(ctx))
	if sessionID := contextPkg.GetSessionID(ctx); sessionID != "" {
		entry = entry.WithField("session_id", sessionID)
	}
	return entry
}
