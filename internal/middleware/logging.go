package middleware

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"tsst-site/internal/logging"
	"tsst-site/internal/mediatypes"
)

// w3cFields is the #Fields directive; every request line follows this order.
var w3cFields = []string{
	"date", "time", "c-ip", "cs-method", "cs-uri-stem", "cs-uri-query",
	"sc-status", "sc-bytes", "time-taken", "cs(Content-Encoding)",
	"cs(User-Agent)", "cs(Referer)",
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths []string
	// SkipExtensions are skipped in addition to every publishable media
	// extension when LogStaticFiles is off.
	SkipExtensions  []string
	LogStaticFiles  bool
	LogHealthChecks bool
	ServiceName     string
}

// DefaultLoggingConfig returns the access log settings of the preview server
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{},
		SkipExtensions:  []string{".ico", ".svg", ".css", ".js"},
		LogStaticFiles:  false,
		LogHealthChecks: true,
		ServiceName:     "TSSTSite/1.0",
	}
}

// W3CLogger writes requests in W3C Extended Log Format. The directive
// header is written once, before the first request line.
type W3CLogger struct {
	config     LoggingConfig
	headerOnce sync.Once
	printf     func(format string, args ...interface{})
}

// NewW3CLogger creates a logger that writes through the logging package
func NewW3CLogger(config LoggingConfig) *W3CLogger {
	return &W3CLogger{config: config, printf: logging.Printf}
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	l := NewW3CLogger(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			l.log(r, rec, time.Since(start))
		})
	}
}

func (l *W3CLogger) log(r *http.Request, rec *statusRecorder, elapsed time.Duration) {
	now := time.Now().UTC()
	l.headerOnce.Do(func() {
		l.printf("#Software: %s", l.config.ServiceName)
		l.printf("#Version: 1.0")
		l.printf("#Date: %s", now.Format("2006-01-02 15:04:05"))
		l.printf("#Fields: %s", strings.Join(w3cFields, " "))
	})

	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		orDash(sanitizeLogField(getClientIP(r))),
		orDash(sanitizeLogField(r.Method)),
		orDash(sanitizeLogField(r.URL.Path)),
		orDash(sanitizeLogField(r.URL.RawQuery)),
		strconv.Itoa(rec.status),
		strconv.FormatInt(rec.bytes, 10),
		strconv.FormatInt(elapsed.Milliseconds(), 10),
		orDash(rec.Header().Get("Content-Encoding")),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("User-Agent")))),
		orDash(escapeW3CField(sanitizeLogField(r.Header.Get("Referer")))),
	}

	//nolint:gosec // G706: request fields pass through sanitizeLogField
	l.printf("%s", strings.Join(fields, " "))
}

func (l *W3CLogger) skip(urlPath string) bool {
	return shouldSkip(urlPath, l.config)
}

func shouldSkip(urlPath string, config LoggingConfig) bool {
	for _, prefix := range config.SkipPaths {
		if strings.HasPrefix(urlPath, prefix) {
			return true
		}
	}

	if healthCheckPaths[urlPath] {
		return !config.LogHealthChecks
	}

	if config.LogStaticFiles {
		return false
	}
	ext := strings.ToLower(path.Ext(urlPath))
	if ext == "" {
		return false
	}
	if mediatypes.IsMediaFile(ext) {
		return true
	}
	for _, skip := range config.SkipExtensions {
		if ext == skip {
			return true
		}
	}
	return false
}

// sanitizeLogField strips control characters that could forge log lines or
// drive a terminal. Newlines become spaces; tabs are kept.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// escapeW3CField quotes values containing spaces, tabs or quotes, doubling
// embedded quotes.
func escapeW3CField(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
