package tally

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage keys used when none are configured.
const (
	DefaultStorageKey = "cc:v3"
)

// DefaultLegacyKeys lists keys written by older generations of the
// counter. They are read once, migrated, and deleted.
var DefaultLegacyKeys = []string{"clicker-state"}

// Option configures Open, Migrate and NormalizeEntry.
type Option func(*settings)

type settings struct {
	key        string
	legacyKeys []string
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		key:        DefaultStorageKey,
		legacyKeys: DefaultLegacyKeys,
		now:        time.Now,
		newID:      NewID,
		logger:     slog.Default().With("component", "tally"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithStorageKey sets the canonical key the state is saved under.
func WithStorageKey(key string) Option {
	return func(s *settings) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLegacyKeys sets the keys probed when the canonical key is empty.
func WithLegacyKeys(keys ...string) Option {
	return func(s *settings) {
		s.legacyKeys = append([]string(nil), keys...)
	}
}

// WithClock replaces time.Now, mainly for rollover tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewID generates a tape entry ID: a UUID v7, or v4 if v7 generation fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
