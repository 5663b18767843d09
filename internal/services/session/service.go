// Package session hosts tooltip managers and their documents on the server
// so a thin client can forward pointer, focus and key events
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-lore/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// DefaultIdleTTL is how long a session survives without events
const DefaultIdleTTL = 30 * time.Minute

// Config holds the dependencies shared by every session
type Config struct {
	Resolver  tooltip.Resolver
	Renderer  tooltip.Renderer
	Processor *batch.Processor

	Clock       clock.Clock
	IDGenerator idgen.Generator
	IdleTTL     time.Duration
	// Tick is the document observer batching window
	Tick time.Duration
	// Tooltip seeds every manager; Resolver, Renderer and Clock are overridden
	Tooltip tooltip.Config
	Options batch.Options

	Logger *slog.Logger
}

// Validate checks required dependencies and fills in defaults
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if c.Processor == nil {
		vb.RequiredField("Processor")
	}
	if c.IdleTTL < 0 {
		vb.InvalidField("IdleTTL", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.IDGenerator == nil {
		c.IDGenerator = idgen.NewULID("sess")
	}
	if c.IdleTTL == 0 {
		c.IdleTTL = DefaultIdleTTL
	}
	if c.Tick == 0 {
		c.Tick = batch.DefaultTick
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// Service owns the live sessions
type Service struct {
	cfg      Config
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a session service
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Service{
		cfg:      *cfg,
		sessions: make(map[string]*Session),
	}, nil
}

// Create starts a session with an empty document
func (s *Service) Create(_ context.Context, input CreateInput) (*View, error) {
	sess, err := newSession(s, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.scheduleExpiryLocked(sess)
	s.mu.Unlock()

	s.cfg.Logger.Info("tooltip session created", "session_id", sess.id)
	return sess.view(), nil
}

// Get returns a session snapshot
func (s *Service) Get(_ context.Context, id string) (*View, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// Delete ends a session
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		if sess.expiry != nil {
			sess.expiry.Stop()
		}
	}
	s.mu.Unlock()

	if !ok {
		return errors.NotFoundf("session %s not found", id)
	}
	sess.close()
	s.cfg.Logger.Info("tooltip session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Dispatch forwards an event to the session's tooltip manager
func (s *Service) Dispatch(_ context.Context, id string, event Event) (*EventResult, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}

	handled, err := sess.dispatch(event)
	if err != nil {
		return nil, err
	}
	return &EventResult{Handled: handled, View: sess.view()}, nil
}

// SetDocument replaces the session document and processes it at once
func (s *Service) SetDocument(ctx context.Context, id, src string) (batch.Stats, error) {
	sess, err := s.touch(id)
	if err != nil {
		return batch.Stats{}, err
	}
	return sess.setDocument(ctx, src)
}

// InsertFragment appends HTML under the element with the given id, or under
// the body when parentID is empty. The new nodes are processed on the next
// observer tick. Returns the number of inserted top-level nodes.
func (s *Service) InsertFragment(_ context.Context, id, parentID, src string) (int, error) {
	sess, err := s.touch(id)
	if err != nil {
		return 0, err
	}
	return sess.insertFragment(parentID, src)
}

// FlushDocument processes queued fragments without waiting for the tick
func (s *Service) FlushDocument(ctx context.Context, id string) (batch.Stats, error) {
	sess, err := s.touch(id)
	if err != nil {
		return batch.Stats{}, err
	}
	return sess.observer.Flush(ctx)
}

// Document serializes the session document body
func (s *Service) Document(_ context.Context, id string) (string, error) {
	sess, err := s.touch(id)
	if err != nil {
		return "", err
	}
	return sess.document()
}

func (s *Service) touch(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.NotFoundf("session %s not found", id)
	}
	sess.markActive(s.cfg.Clock.Now())
	s.scheduleExpiryLocked(sess)
	return sess, nil
}

func (s *Service) scheduleExpiryLocked(sess *Session) {
	if sess.expiry != nil {
		sess.expiry.Stop()
	}
	sess.expiryGen++
	gen := sess.expiryGen
	sess.expiry = s.cfg.Clock.AfterFunc(s.cfg.IdleTTL, func() {
		s.expire(sess.id, gen)
	})
}

func (s *Service) expire(id string, gen uint64) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.expiryGen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	sess.close()
	s.cfg.Logger.Info("tooltip session expired", "session_id", id)
}
