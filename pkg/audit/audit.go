package audit

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventCandidateCreated   EventType = "candidate_created"
	EventCandidateUpdated   EventType = "candidate_updated"
	EventCandidateDeleted   EventType = "candidate_deleted"
	EventBulkAction         EventType = "candidate_bulk_action"
	EventExport             EventType = "candidate_export"
	EventValidationFailed   EventType = "validation_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
)

// Event is one entry of the mutation audit trail.
type Event struct {
	Timestamp    time.Time
	Event        EventType
	SubjectType  string // "candidate", "email", "ip"
	SubjectValue string // masked when it is PII
	IP           string
	RequestID    string
	Details      map[string]any
}

// Logger writes audit events through zap. A nil *Logger discards everything.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds a production zap logger writing JSON to stdout.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithZap(logger, serviceName, environment)
}

// NewWithZap wraps an existing zap logger.
func NewWithZap(logger *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Nop returns a logger that drops every event.
func Nop() *Logger {
	return NewWithZap(zap.NewNop(), "", "")
}

// Log writes a single event.
func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.InfoLevel
	if event.Event == EventValidationFailed || event.Event == EventRateLimitTriggered {
		level = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// CandidateCreated records a new candidate. The email is masked.
func (l *Logger) CandidateCreated(requestID, id, email string) {
	l.Log(Event{
		Event:        EventCandidateCreated,
		SubjectType:  "candidate",
		SubjectValue: id,
		RequestID:    requestID,
		Details:      map[string]any{"email": MaskEmail(email)},
	})
}

func (l *Logger) CandidateUpdated(requestID, id, status string) {
	l.Log(Event{
		Event:        EventCandidateUpdated,
		SubjectType:  "candidate",
		SubjectValue: id,
		RequestID:    requestID,
		Details:      map[string]any{"status": status},
	})
}

func (l *Logger) CandidateDeleted(requestID, id string) {
	l.Log(Event{
		Event:        EventCandidateDeleted,
		SubjectType:  "candidate",
		SubjectValue: id,
		RequestID:    requestID,
	})
}

// BulkAction records a batch statement and how many rows it touched.
func (l *Logger) BulkAction(requestID, action string, requested int, affected int64) {
	l.Log(Event{
		Event:     EventBulkAction,
		RequestID: requestID,
		Details: map[string]any{
			"action":    action,
			"requested": requested,
			"affected":  affected,
		},
	})
}

func (l *Logger) Export(requestID, format string, rows int) {
	l.Log(Event{
		Event:     EventExport,
		RequestID: requestID,
		Details:   map[string]any{"format": format, "rows": rows},
	})
}

// ValidationFailed records rejected payloads by rule message only.
func (l *Logger) ValidationFailed(requestID string, messages []string) {
	l.Log(Event{
		Event:     EventValidationFailed,
		RequestID: requestID,
		Details:   map[string]any{"errors": messages},
	})
}

func (l *Logger) RateLimitTriggered(requestID, ip, endpoint string) {
	l.Log(Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}
