package wins

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/models"
)

// failingStore lets tests break writes or reads on demand.
type failingStore struct {
	*kv.MemoryStore
	setErr    error
	getErr    error
	removeErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *failingStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.MemoryStore.Remove(ctx, key)
}

var noon = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, now time.Time) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return New(mem, WithClock(calendar.Fixed(now)), WithLocation(time.UTC)), mem
}

// seed writes records dated on the given days directly to storage.
func seed(t *testing.T, store kv.Store, days ...calendar.Day) {
	t.Helper()
	var records []models.WinRecord
	for i, d := range days {
		records = append(records, models.WinRecord{
			ID:        strings.Repeat("0", 25) + string(rune('A'+i)),
			Date:      d,
			Text:      "win",
			Timestamp: d.At(9, 0, time.UTC),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), constants.KeyWins, data); err != nil {
		t.Fatal(err)
	}
}

func TestSaveWinAppendsTrimmedRecordDatedToday(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, noon)

	before := len(s.GetAllWins(ctx))
	rec, err := s.SaveWin(ctx, "  shipped the release \n")
	if err != nil {
		t.Fatalf("SaveWin() error = %v", err)
	}

	all := s.GetAllWins(ctx)
	if len(all) != before+1 {
		t.Fatalf("expected %d records, got %d", before+1, len(all))
	}
	got := all[len(all)-1]
	if got.Text != "shipped the release" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Date.String() != "2024-05-15" {
		t.Errorf("Date = %s, want 2024-05-15", got.Date)
	}
	if got.ID != rec.ID || got.ID == "" {
		t.Errorf("returned record %q does not match stored %q", rec.ID, got.ID)
	}
	if !got.Timestamp.Equal(noon) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, noon)
	}
}

func TestSaveWinKeepsAppendOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, noon)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.SaveWin(ctx, text); err != nil {
			t.Fatal(err)
		}
	}

	all := s.GetAllWins(ctx)
	for i, want := range []string{"first", "second", "third"} {
		if all[i].Text != want {
			t.Errorf("record %d = %q, want %q", i, all[i].Text, want)
		}
	}
	if !(all[0].ID < all[1].ID && all[1].ID < all[2].ID) {
		t.Errorf("ids are not monotonic: %s %s %s", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestSaveWinValidation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"single space", " ", true},
		{"only whitespace", "\t\n  ", true},
		{"one char", "x", false},
		{"exactly 280", strings.Repeat("a", 280), false},
		{"281", strings.Repeat("a", 281), true},
		{"280 with surrounding spaces", "  " + strings.Repeat("a", 280) + "  ", false},
		{"280 multibyte", strings.Repeat("é", 280), false},
		{"281 multibyte", strings.Repeat("✨", 281), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := newTestStore(t, noon)

			_, err := s.SaveWin(ctx, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SaveWin() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				if n := len(s.GetAllWins(ctx)); n != 0 {
					t.Errorf("rejected save mutated the collection: %d records", n)
				}
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(""); got != 280 {
		t.Errorf("Remaining(\"\") = %d", got)
	}
	if got := Remaining(strings.Repeat("✨", 290)); got != -10 {
		t.Errorf("Remaining(290 runes) = %d, want -10", got)
	}
}

func TestGetAllWinsEmptyStorage(t *testing.T) {
	s, _ := newTestStore(t, noon)
	wins := s.GetAllWins(context.Background())
	if wins == nil || len(wins) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", wins)
	}
}

func TestCorruptDataDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, noon)
	if err := mem.Set(ctx, constants.KeyWins, []byte("{oops")); err != nil {
		t.Fatal(err)
	}

	if n := len(s.GetAllWins(ctx)); n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}
	if s.GetStreak(ctx) != 0 {
		t.Error("expected zero streak on corrupt data")
	}

	if _, err := s.SaveWin(ctx, "recovered"); err != nil {
		t.Fatalf("SaveWin() after corruption error = %v", err)
	}
	if n := len(s.GetAllWins(ctx)); n != 1 {
		t.Errorf("expected 1 record after save, got %d", n)
	}
}

func TestUnreadableStorage(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{MemoryStore: kv.NewMemoryStore(), getErr: stderrors.New("io error")}
	s := New(fs, WithClock(calendar.Fixed(noon)), WithLocation(time.UTC))

	if n := len(s.GetAllWins(ctx)); n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}

	// A save must not overwrite data it could not read
	_, err := s.SaveWin(ctx, "win")
	if !errors.Is(err, errors.ErrPersistence) {
		t.Errorf("expected persistence error, got %v", err)
	}
}

func TestSaveWinPersistenceFailureLeavesCollectionIntact(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{MemoryStore: kv.NewMemoryStore()}
	s := New(fs, WithClock(calendar.Fixed(noon)), WithLocation(time.UTC))

	if _, err := s.SaveWin(ctx, "kept"); err != nil {
		t.Fatal(err)
	}

	fs.setErr = stderrors.New("disk full")
	_, err := s.SaveWin(ctx, "lost")
	if !errors.Is(err, errors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	all := s.GetAllWins(ctx)
	if len(all) != 1 || all[0].Text != "kept" {
		t.Errorf("collection changed after failed write: %+v", all)
	}
}

func TestConcurrentSavesDoNotDropWrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, noon)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.SaveWin(ctx, "tap"); err != nil {
				t.Errorf("SaveWin() error = %v", err)
			}
		}()
	}
	wg.Wait()

	all := s.GetAllWins(ctx)
	if len(all) != n {
		t.Fatalf("expected %d records, got %d", n, len(all))
	}
	ids := make(map[string]bool, n)
	for _, w := range all {
		if ids[w.ID] {
			t.Errorf("duplicate id %s", w.ID)
		}
		ids[w.ID] = true
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	today := calendar.FromTime(noon, time.UTC)
	s, mem := newTestStore(t, noon)
	seed(t, mem, today.AddDays(-1), today)

	if !s.HasWinToday(ctx) {
		t.Fatal("expected a win today before clearing")
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	if s.HasWinToday(ctx) {
		t.Error("HasWinToday() = true after ClearAll")
	}
	if n := len(s.GetAllWins(ctx)); n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}
	if s.GetStreak(ctx) != 0 {
		t.Error("expected zero streak after ClearAll")
	}
}

func TestClearAllFailure(t *testing.T) {
	ctx := context.Background()
	today := calendar.FromTime(noon, time.UTC)
	fs := &failingStore{MemoryStore: kv.NewMemoryStore(), removeErr: stderrors.New("locked")}
	s := New(fs, WithClock(calendar.Fixed(noon)), WithLocation(time.UTC))
	seed(t, fs.MemoryStore, today)

	if err := s.ClearAll(ctx); !errors.Is(err, errors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if n := len(s.GetAllWins(ctx)); n != 1 {
		t.Errorf("failed clear must leave collection intact, got %d records", n)
	}
}

func TestSaveWinUsesConfiguredTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	ctx := context.Background()
	// 20:00 UTC on May 15 is 05:00 May 16 in Tokyo
	instant := time.Date(2024, time.May, 15, 20, 0, 0, 0, time.UTC)
	s := New(kv.NewMemoryStore(), WithClock(calendar.Fixed(instant)), WithLocation(tokyo))

	rec, err := s.SaveWin(ctx, "late night")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Date.String() != "2024-05-16" {
		t.Errorf("Date = %s, want 2024-05-16", rec.Date)
	}
	if !s.HasWinToday(ctx) {
		t.Error("HasWinToday() = false in the store's own timezone")
	}
}

func TestRandomWin(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := New(mem, WithClock(calendar.Fixed(noon)), WithLocation(time.UTC), WithRand(rand.New(rand.NewPCG(1, 2))))

	if _, ok := s.RandomWin(ctx); ok {
		t.Error("RandomWin() on empty store returned ok")
	}

	for _, text := range []string{"a", "b", "c"} {
		if _, err := s.SaveWin(ctx, text); err != nil {
			t.Fatal(err)
		}
	}
	got, ok := s.RandomWin(ctx)
	if !ok {
		t.Fatal("RandomWin() returned !ok")
	}
	if got.Text != "a" && got.Text != "b" && got.Text != "c" {
		t.Errorf("RandomWin() returned unknown record %+v", got)
	}
}
