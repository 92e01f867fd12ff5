package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// credentialKeywords mark attribute keys that carry secrets regardless of
// the configured columns.
var credentialKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "api_key", "apikey",
}

// credentialPatterns match values that are secrets whatever their key.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// RedactHandler wraps an slog.Handler and masks attributes whose key is a
// sensitive column name or a credential-like key. Column matching is
// case-insensitive and applies inside groups too.
type RedactHandler struct {
	handler slog.Handler
	columns map[string]struct{}
}

// NewRedactHandler creates a RedactHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler, sensitiveColumns ...string) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	columns := make(map[string]struct{}, len(sensitiveColumns))
	for _, c := range sensitiveColumns {
		if c = strings.TrimSpace(c); c != "" {
			columns[strings.ToLower(c)] = struct{}{}
		}
	}
	return &RedactHandler{handler: handler, columns: columns}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.redact(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redact(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(masked), columns: h.columns}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name), columns: h.columns}
}

// IsSensitive reports whether an attribute with this key is masked.
func (h *RedactHandler) IsSensitive(key string) bool {
	key = strings.ToLower(key)
	if _, ok := h.columns[key]; ok {
		return true
	}
	for _, kw := range credentialKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// redact masks a single attribute, recursing into groups.
func (h *RedactHandler) redact(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			masked[i] = h.redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if h.IsSensitive(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if v.Kind() == slog.KindString && isCredential(v.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isCredential reports whether value looks like a secret.
func isCredential(value string) bool {
	for _, p := range credentialPatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a text logger on w that masks sensitiveColumns.
// With verbose the level is Debug, otherwise Warn.
func NewLogger(w io.Writer, verbose bool, sensitiveColumns ...string) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, handlerOptions(verbose)), sensitiveColumns...))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
