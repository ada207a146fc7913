// Package reminder keeps exactly one recurring daily reminder registered at
// the configured hour.
package reminder

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/models"
	"github.com/julianstephens/smallwins/internal/notifier"
)

// State tracks the permission and scheduling lifecycle.
type State int

const (
	StateUnrequested State = iota
	StateDenied
	StateGranted
	StateScheduled
	StateRescheduled
)

func (s State) String() string {
	switch s {
	case StateUnrequested:
		return "unrequested"
	case StateDenied:
		return "denied"
	case StateGranted:
		return "granted"
	case StateScheduled:
		return "scheduled"
	case StateRescheduled:
		return "rescheduled"
	default:
		return "unknown"
	}
}

// Outcome is the result of a (re)schedule. Next is zero when nothing was
// scheduled.
type Outcome struct {
	State State
	Next  time.Time
}

// Scheduled reports whether a trigger is active after the call.
func (o Outcome) Scheduled() bool {
	return o.State == StateScheduled || o.State == StateRescheduled
}

// triggerSource is implemented by platforms that can report the active
// trigger, which lets a fresh process restore it after a failed replace.
type triggerSource interface {
	Current(ctx context.Context) (models.Trigger, bool, error)
}

type Scheduler struct {
	kv       kv.Store
	platform notifier.Platform
	clock    calendar.Clock
	loc      *time.Location

	mu    sync.Mutex
	state State
	// last is the trigger this scheduler registered most recently
	last *models.Trigger
}

type Option func(*Scheduler)

func WithClock(clock calendar.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

func New(store kv.Store, platform notifier.Platform, opts ...Option) *Scheduler {
	s := &Scheduler{
		kv:       store,
		platform: platform,
		clock:    calendar.SystemClock,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetConfiguredHour returns the persisted reminder hour, or the default
// when it is missing or unreadable.
func (s *Scheduler) GetConfiguredHour(ctx context.Context) int {
	hour, err := s.loadHour(ctx)
	if err != nil {
		logger.Warn("Failed to read reminder hour", "error", err)
		return constants.DefaultReminderHour
	}
	return hour
}

// loadHour falls back to the default for a missing, corrupt or out of range
// value and returns the error for a failed read.
func (s *Scheduler) loadHour(ctx context.Context) (int, error) {
	data, err := s.kv.Get(ctx, constants.KeyNotificationHour)
	if stderrors.Is(err, kv.ErrNotFound) {
		return constants.DefaultReminderHour, nil
	}
	if err != nil {
		return 0, err
	}

	var hour int
	if err := json.Unmarshal(data, &hour); err != nil {
		logger.Warn("Stored reminder hour is unreadable, using default", "value", string(data), "error", err)
		return constants.DefaultReminderHour, nil
	}
	if !validHour(hour) {
		logger.Warn("Stored reminder hour is out of range, using default", "hour", hour)
		return constants.DefaultReminderHour, nil
	}
	return hour, nil
}

// SetConfiguredHour validates and persists hour, then reschedules.
func (s *Scheduler) SetConfiguredHour(ctx context.Context, hour int) (Outcome, error) {
	if !validHour(hour) {
		return Outcome{State: s.State()}, errors.NewHourOutOfRange(hour)
	}

	if err := s.kv.Set(ctx, constants.KeyNotificationHour, []byte(strconv.Itoa(hour))); err != nil {
		logger.Error("Failed to persist reminder hour", "hour", hour, "error", err)
		return Outcome{State: s.State()}, errors.NewPersistence("write reminder hour", err)
	}
	logger.Debug("Reminder hour updated", "hour", hour)

	return s.ScheduleDaily(ctx)
}

// RequestPermission asks the platform for permission and records the
// answer. A refusal is a state, not an error.
func (s *Scheduler) RequestPermission(ctx context.Context) bool {
	granted, err := s.platform.RequestPermission(ctx)
	if err != nil {
		logger.Warn("Notification permission request failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !granted:
		s.state = StateDenied
	case s.state == StateUnrequested || s.state == StateDenied:
		s.state = StateGranted
	}
	return granted
}

// ScheduleDaily replaces any existing reminder with a single recurring
// trigger at the configured hour. It does nothing when permission has not
// been granted. If the platform rejects the new trigger, the previous one
// is put back and a scheduling error is returned.
func (s *Scheduler) ScheduleDaily(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.platform.PermissionGranted(ctx) {
		if s.state != StateUnrequested {
			s.state = StateDenied
		}
		logger.Debug("Skipping reminder, notifications not permitted", "state", s.state)
		return Outcome{State: s.state}, nil
	}
	if s.state == StateUnrequested || s.state == StateDenied {
		s.state = StateGranted
	}

	hour, err := s.loadHour(ctx)
	if err != nil {
		logger.Error("Failed to read reminder hour", "error", err)
		return Outcome{State: s.state}, errors.NewPersistence("read reminder hour", err)
	}
	previous := s.previous(ctx)

	if err := s.platform.CancelAll(ctx); err != nil {
		logger.Error("Failed to cancel reminders", "error", err)
		return Outcome{State: s.state}, errors.NewScheduling("cancel reminders", err)
	}

	if err := s.platform.ScheduleRecurring(ctx, hour, 0, constants.ReminderTitle, constants.ReminderBody); err != nil {
		logger.Error("Failed to schedule reminder", "hour", hour, "error", err)
		s.restore(ctx, previous)
		return Outcome{State: s.state}, errors.NewScheduling("schedule reminder", err)
	}

	if s.state == StateScheduled || s.state == StateRescheduled {
		s.state = StateRescheduled
	} else {
		s.state = StateScheduled
	}
	s.last = &models.Trigger{
		Hour:   hour,
		Minute: 0,
		Title:  constants.ReminderTitle,
		Body:   constants.ReminderBody,
	}

	next := NextFireTime(s.clock().In(s.loc), hour)
	logger.Info("Daily reminder scheduled", "hour", hour, "next", next.Format(time.RFC3339))
	return Outcome{State: s.state, Next: next}, nil
}

// previous returns the trigger to restore if a replace fails. Callers hold s.mu.
func (s *Scheduler) previous(ctx context.Context) *models.Trigger {
	if src, ok := s.platform.(triggerSource); ok {
		trigger, found, err := src.Current(ctx)
		if err != nil {
			logger.Warn("Failed to read current reminder", "error", err)
		} else if found {
			return &trigger
		}
		return s.last
	}
	return s.last
}

// restore re-registers a trigger after a failed replace. Callers hold s.mu.
func (s *Scheduler) restore(ctx context.Context, previous *models.Trigger) {
	if previous == nil {
		return
	}
	if err := s.platform.ScheduleRecurring(ctx, previous.Hour, previous.Minute, previous.Title, previous.Body); err != nil {
		logger.Error("Failed to restore previous reminder", "hour", previous.Hour, "error", err)
		return
	}
	logger.Info("Restored previous reminder", "hour", previous.Hour)
}

// NextFireTime returns the next hour:00:00 in now's location: today if it
// is still ahead, otherwise tomorrow. Wall-clock arithmetic keeps the hour
// stable across DST changes.
func NextFireTime(now time.Time, hour int) time.Time {
	loc := now.Location()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if candidate.After(now) {
		return candidate
	}
	return time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, loc)
}

func validHour(hour int) bool {
	return hour >= 0 && hour <= 23
}
