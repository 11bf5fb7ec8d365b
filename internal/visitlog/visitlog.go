// Package visitlog appends one JSON object per visited page to a flat file.
package visitlog

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/concreteguy/homepage/internal/logger"
)

const timestampLayout = "2006-01-02 15:04:05"

// Record is a single line of the visit log. Referrer and SessionID are null
// when the request has none.
type Record struct {
	Timestamp string  `json:"Timestamp"`
	IP        string  `json:"IP"`
	UserAgent string  `json:"User-Agent"`
	Method    string  `json:"Method"`
	URL       string  `json:"URL"`
	Referrer  *string `json:"Referrer"`
	SessionID *string `json:"Session ID"`
}

type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// Open appends to the file at path, creating it if needed.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open visit log: %w", err)
	}
	return New(f), nil
}

func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Write appends rec as one line. The line is written with a single call so
// concurrent requests never interleave inside a record.
func (l *Logger) Write(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(line)
	return err
}

func (l *Logger) Close() error {
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// IsStaticRequest reports whether path is an asset that is not worth logging.
func IsStaticRequest(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		path == "/manifest.json" ||
		path == "/favicon.ico"
}

// Middleware logs every non-static request before passing it on. sessionID
// returns the resolved session id for the request, or "" for anonymous ones.
func (l *Logger) Middleware(sessionID func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsStaticRequest(r.URL.Path) {
				rec := l.record(r, sessionID(r))
				if err := l.Write(rec); err != nil {
					logger.Log.Error("failed to write visit log", "error", err)
				} else {
					logger.Log.Debug("visit logged", "method", rec.Method, "url", rec.URL, "ip", rec.IP)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *Logger) record(r *http.Request, sid string) Record {
	rec := Record{
		Timestamp: l.now().Format(timestampLayout),
		IP:        remoteIP(r),
		UserAgent: r.UserAgent(),
		Method:    r.Method,
		URL:       fullURL(r),
	}
	if ref := r.Referer(); ref != "" {
		rec.Referrer = &ref
	}
	if sid != "" {
		rec.SessionID = &sid
	}
	return rec
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
