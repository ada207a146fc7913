// Package wins owns the append-only collection of win records and the
// statistics derived from it.
package wins

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/json"
	stderrors "errors"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/models"
)

// Store is the win collection. Construct one per process with New and pass
// it to whatever needs it.
type Store struct {
	kv      kv.Store
	clock   calendar.Clock
	loc     *time.Location
	rng     *rand.Rand
	entropy io.Reader

	// mu serializes the read-modify-write of SaveWin against itself and ClearAll
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for "today" and timestamps.
func WithClock(clock calendar.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithRand sets the source used by RandomWin.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// New creates a Store on top of the given key-value store. Days are
// computed in time.Local unless WithLocation is given.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:      store,
		clock:   calendar.SystemClock,
		loc:     time.Local,
		entropy: ulid.Monotonic(cryptorand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the timezone that defines calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today returns the current calendar day in the store's timezone.
func (s *Store) Today() calendar.Day {
	return calendar.FromTime(s.clock(), s.loc)
}

// ValidateText trims text and checks it against the length bounds.
// It returns the trimmed text on success.
func ValidateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 {
		return "", errors.NewTextEmpty()
	}
	if n > constants.MaxChars {
		return "", errors.NewTextTooLong(constants.MaxChars, n)
	}
	return trimmed, nil
}

// Remaining returns how many characters are left before text hits the
// limit. Negative values mean the input is over by that many.
func Remaining(text string) int {
	return constants.MaxChars - utf8.RuneCountInString(text)
}

// load reads the collection. A missing or corrupt value is an empty
// collection; only an I/O failure is returned as an error.
func (s *Store) load(ctx context.Context) ([]models.WinRecord, error) {
	data, err := s.kv.Get(ctx, constants.KeyWins)
	if err != nil {
		if stderrors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var wins []models.WinRecord
	if err := json.Unmarshal(data, &wins); err != nil {
		logger.Warn("Stored wins are unreadable, treating as empty", "key", constants.KeyWins, "error", err)
		return nil, nil
	}
	return wins, nil
}

// GetAllWins returns every record in append order, oldest first. It never
// fails: unreadable storage yields an empty slice.
func (s *Store) GetAllWins(ctx context.Context) []models.WinRecord {
	wins, err := s.load(ctx)
	if err != nil {
		logger.Warn("Failed to read wins", "error", err)
		return []models.WinRecord{}
	}
	if wins == nil {
		return []models.WinRecord{}
	}
	return wins
}

// SaveWin validates text, appends a record dated today and persists the
// whole collection. On failure the stored collection is unchanged.
func (s *Store) SaveWin(ctx context.Context, text string) (models.WinRecord, error) {
	trimmed, err := ValidateText(text)
	if err != nil {
		return models.WinRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wins, err := s.load(ctx)
	if err != nil {
		logger.Error("Failed to read wins before save", "error", err)
		return models.WinRecord{}, errors.NewPersistence("read wins", err)
	}

	now := s.clock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return models.WinRecord{}, errors.NewPersistence("generate win id", err)
	}

	record := models.WinRecord{
		ID:        id.String(),
		Date:      calendar.FromTime(now, s.loc),
		Text:      trimmed,
		Timestamp: now,
	}

	updated := make([]models.WinRecord, 0, len(wins)+1)
	updated = append(updated, wins...)
	updated = append(updated, record)

	data, err := json.Marshal(updated)
	if err != nil {
		return models.WinRecord{}, errors.NewPersistence("serialize wins", err)
	}
	if err := s.kv.Set(ctx, constants.KeyWins, data); err != nil {
		logger.Error("Failed to persist win", "error", err)
		return models.WinRecord{}, errors.NewPersistence("write wins", err)
	}

	logger.Debug("Saved win", "id", record.ID, "date", record.Date)
	return record, nil
}

// ClearAll irreversibly removes every record. The removal is a single
// key delete, so the collection is either fully present or fully gone.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, constants.KeyWins); err != nil {
		logger.Error("Failed to clear wins", "error", err)
		return errors.NewPersistence("clear wins", err)
	}
	logger.Info("Cleared all wins")
	return nil
}

// RandomWin returns a uniformly chosen record, or false when there are none.
func (s *Store) RandomWin(ctx context.Context) (models.WinRecord, bool) {
	wins := s.GetAllWins(ctx)
	if len(wins) == 0 {
		return models.WinRecord{}, false
	}

	var i int
	if s.rng != nil {
		i = s.rng.IntN(len(wins))
	} else {
		i = rand.IntN(len(wins))
	}
	return wins[i], true
}
