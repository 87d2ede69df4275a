// Package session owns the state of one profiling session: the entity
// record under construction, its social links, the bounded trace log and
// the authentication flag.
package session

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/semantika/orgforge/internal/entity"
)

// TraceCap bounds the trace ring; only the most recent entries survive.
const TraceCap = 50

// Trace levels.
const (
	LevelInfo  = "INFO"
	LevelOK    = "OK"
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelHTTP  = "HTTP"
)

var levelIcons = map[string]string{
	LevelInfo:  "ℹ️",
	LevelOK:    "✅",
	LevelError: "❌",
	LevelWarn:  "⚠️",
	LevelHTTP:  "🌐",
}

// Session is the single mutable owner of one profiling run. It is not
// safe for concurrent use; the HTTP layer serializes access.
type Session struct {
	Record *entity.Record
	Links  *entity.SocialLinks

	secret        string
	authenticated bool
	trace         []string
	now           func() time.Time
}

// New creates a fresh session gated by the given shared secret. An empty
// secret disables the gate; the session starts authenticated.
func New(secret string) *Session {
	return &Session{
		Record:        entity.NewRecord(),
		Links:         &entity.SocialLinks{},
		secret:        secret,
		authenticated: secret == "",
		now:           time.Now,
	}
}

// Authenticate checks the shared secret and flips the session flag on a
// match. The comparison is constant-time. There is no lockout; a wrong
// secret simply reports false.
func (s *Session) Authenticate(password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.secret)) == 1 {
		s.authenticated = true
	}
	return s.authenticated
}

// Authenticated reports whether the gate has been passed.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Log appends a trace line "<icon> [HH:MM:SS] msg" and trims the ring to
// its cap. Unknown levels get a neutral bullet.
func (s *Session) Log(level, msg string) {
	icon, ok := levelIcons[level]
	if !ok {
		icon = "•"
	}
	line := fmt.Sprintf("%s [%s] %s", icon, s.now().Format("15:04:05"), msg)
	s.trace = append(s.trace, line)
	if len(s.trace) > TraceCap {
		s.trace = s.trace[len(s.trace)-TraceCap:]
	}
}

// Logf is Log with formatting.
func (s *Session) Logf(level, format string, args ...any) {
	s.Log(level, fmt.Sprintf(format, args...))
}

// Trace returns a copy of the retained trace lines, oldest first.
func (s *Session) Trace() []string {
	out := make([]string, len(s.trace))
	copy(out, s.trace)
	return out
}

// Reset clears the record, the links and the trace. Authentication
// survives a reset.
func (s *Session) Reset() {
	s.Record.Reset()
	s.Links.Reset()
	s.trace = nil
}
