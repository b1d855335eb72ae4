// Package session keeps one in-memory workbook per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/random"
	"github.com/locvowork/spreadsheet_tutorial/internal/logger"
	"github.com/locvowork/spreadsheet_tutorial/pkg/spreadsheet"
)

const idLength = 32

// Loader produces the workbook a new session starts with.
type Loader func(ctx context.Context) (*spreadsheet.Spreadsheet, error)

// FileLoader opens the workbook at path for every new session.
func FileLoader(path string) Loader {
	return func(ctx context.Context) (*spreadsheet.Spreadsheet, error) {
		return spreadsheet.Open(path)
	}
}

// Session owns a workbook and serialises the events that touch it.
type Session struct {
	ID string

	mu       sync.Mutex
	sheet    *spreadsheet.Spreadsheet
	lastSeen time.Time
}

// Do runs fn with the session's spreadsheet while holding the session lock.
// The spreadsheet is nil when the workbook failed to load.
func (s *Session) Do(fn func(sheet *spreadsheet.Spreadsheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sheet)
}

// Degraded reports whether the session runs without a workbook.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet == nil
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.sheet.Close()
	s.sheet = nil
	return err
}

type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	load        Loader
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxSessions caps the number of live sessions. Starting a session at
// the cap evicts the least recently seen one. Zero or less means no cap.
func WithMaxSessions(n int) Option {
	return func(st *Store) {
		st.maxSessions = n
	}
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A ttl of zero disables expiry.
func NewStore(load Loader, ttl time.Duration, opts ...Option) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		load:     load,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Create starts a session and loads its workbook. A load failure is logged
// and the session is returned without a workbook.
func (st *Store) Create(ctx context.Context) *Session {
	st.sweep(ctx)

	sess := &Session{ID: random.String(idLength)}
	ctx = logger.WithSessionID(ctx, sess.ID)
	if st.load != nil {
		sheet, err := st.load(ctx)
		if err != nil {
			logger.ErrorLog(ctx, "failed to load workbook: %v", err)
		} else {
			sess.sheet = sheet
			logger.InfoLog(ctx, "session started on sheet %q", sheet.SheetName())
		}
	}

	st.mu.Lock()
	evicted := st.evictLocked()
	sess.lastSeen = st.now()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.release(ctx, evicted, "session evicted, store at capacity")
	return sess
}

// evictLocked removes least recently seen sessions until one more fits
// under the cap. st.mu must be held.
func (st *Store) evictLocked() []*Session {
	if st.maxSessions <= 0 {
		return nil
	}
	var evicted []*Session
	for len(st.sessions) >= st.maxSessions {
		var oldest *Session
		for _, sess := range st.sessions {
			if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
				oldest = sess
			}
		}
		delete(st.sessions, oldest.ID)
		evicted = append(evicted, oldest)
	}
	return evicted
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(ctx context.Context, id string) (*Session, bool) {
	st.sweep(ctx)

	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if ok {
		sess.lastSeen = st.now()
	}
	return sess, ok
}

// GetOrCreate returns the session for id, starting a new one when id is
// unknown or expired. The boolean is true when a session was created.
func (st *Store) GetOrCreate(ctx context.Context, id string) (*Session, bool) {
	if id != "" {
		if sess, ok := st.Get(ctx, id); ok {
			return sess, false
		}
	}
	return st.Create(ctx), true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close drops every session and closes their workbooks.
func (st *Store) Close() error {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	var firstErr error
	for _, sess := range sessions {
		if err := sess.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (st *Store) sweep(ctx context.Context) {
	if st.ttl <= 0 {
		return
	}

	st.mu.Lock()
	cutoff := st.now().Add(-st.ttl)
	var expired []*Session
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	st.release(ctx, expired, "session expired")
}

// release closes the workbooks of sessions already removed from the map.
func (st *Store) release(ctx context.Context, sessions []*Session, reason string) {
	for _, sess := range sessions {
		sctx := logger.WithSessionID(ctx, sess.ID)
		if err := sess.close(); err != nil {
			logger.WarnLog(sctx, "failed to close workbook: %v", err)
			continue
		}
		logger.DebugLog(sctx, reason)
	}
}
