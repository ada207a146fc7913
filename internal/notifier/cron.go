package notifier

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/models"
)

// CronPlatform keeps the reminder as a persisted trigger record and runs
// it on a local cron scheduler. The record is the source of truth: any
// process may replace it, and a running daemon picks the change up on its
// next Sync. At most one trigger exists at a time.
type CronPlatform struct {
	kv     kv.Store
	sender Sender
	loc    *time.Location
	now    func() time.Time
	pause  func(ctx context.Context) error

	mu     sync.Mutex
	cron   *cron.Cron
	entry  cron.EntryID
	active *models.Trigger
}

func NewCronPlatform(store kv.Store, sender Sender, loc *time.Location) *CronPlatform {
	if loc == nil {
		loc = time.Local
	}
	return &CronPlatform{
		kv:     store,
		sender: sender,
		loc:    loc,
		now:    time.Now,
		pause:  retryPause,
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// PermissionGranted reports the last recorded permission answer.
func (p *CronPlatform) PermissionGranted(ctx context.Context) bool {
	data, err := p.kv.Get(ctx, constants.KeyNotificationPermission)
	if err != nil {
		if !stderrors.Is(err, kv.ErrNotFound) {
			logger.Warn("Failed to read notification permission", "error", err)
		}
		return false
	}
	var status string
	if err := json.Unmarshal(data, &status); err != nil {
		logger.Warn("Stored notification permission is unreadable", "error", err)
		return false
	}
	return status == permissionGranted
}

// RequestPermission asks the sender whether it can deliver and records the
// answer.
func (p *CronPlatform) RequestPermission(ctx context.Context) (bool, error) {
	granted := p.sender != nil && p.sender.Available(ctx)
	status := permissionDenied
	if granted {
		status = permissionGranted
	}

	data, err := json.Marshal(status)
	if err != nil {
		return granted, err
	}
	if err := p.kv.Set(ctx, constants.KeyNotificationPermission, data); err != nil {
		return granted, fmt.Errorf("record notification permission: %w", err)
	}
	return granted, nil
}

// CancelAll removes the persisted trigger and any local registration.
func (p *CronPlatform) CancelAll(ctx context.Context) error {
	if err := p.kv.Remove(ctx, constants.KeyReminderTrigger); err != nil {
		return fmt.Errorf("remove reminder trigger: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.unregister()
	return nil
}

// ScheduleRecurring persists a new daily trigger at hour:minute local time
// and registers it locally.
func (p *CronPlatform) ScheduleRecurring(ctx context.Context, hour, minute int, title, body string) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute %d", minute)
	}

	trigger := models.Trigger{
		ID:        uuid.NewString(),
		Hour:      hour,
		Minute:    minute,
		Title:     title,
		Body:      body,
		CreatedAt: p.now().UTC(),
	}
	data, err := json.Marshal(trigger)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, constants.KeyReminderTrigger, data); err != nil {
		return fmt.Errorf("persist reminder trigger: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.register(trigger)
}

// Current returns the persisted trigger, if any.
func (p *CronPlatform) Current(ctx context.Context) (models.Trigger, bool, error) {
	data, err := p.kv.Get(ctx, constants.KeyReminderTrigger)
	if err != nil {
		if stderrors.Is(err, kv.ErrNotFound) {
			return models.Trigger{}, false, nil
		}
		return models.Trigger{}, false, err
	}

	var trigger models.Trigger
	if err := json.Unmarshal(data, &trigger); err != nil {
		logger.Warn("Stored reminder trigger is unreadable", "error", err)
		return models.Trigger{}, false, nil
	}
	return trigger, true, nil
}

// Sync makes the local cron registration match the persisted trigger.
func (p *CronPlatform) Sync(ctx context.Context) error {
	trigger, ok, err := p.Current(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !ok {
		if p.active != nil {
			logger.Info("Reminder trigger removed", "id", p.active.ID)
		}
		p.unregister()
		return nil
	}
	if p.active != nil && p.active.ID == trigger.ID {
		return nil
	}
	logger.Info("Reminder trigger changed", "id", trigger.ID, "hour", trigger.Hour, "minute", trigger.Minute)
	return p.register(trigger)
}

// Active returns the trigger registered on the local cron scheduler.
func (p *CronPlatform) Active() (models.Trigger, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return models.Trigger{}, false
	}
	return *p.active, true
}

// NextRun returns when the local registration fires next.
func (p *CronPlatform) NextRun() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return time.Time{}, false
	}
	entry := p.cron.Entry(p.entry)
	if entry.Next.IsZero() {
		return time.Time{}, false
	}
	return entry.Next, true
}

// Run starts the cron scheduler and re-syncs with the persisted trigger
// every interval until ctx is cancelled.
func (p *CronPlatform) Run(ctx context.Context, interval time.Duration) error {
	if err := p.Sync(ctx); err != nil {
		logger.Warn("Initial reminder sync failed", "error", err)
	}

	p.cron.Start()
	defer func() {
		<-p.cron.Stop().Done()
	}()

	var announced time.Time
	announce := func() {
		next, ok := p.NextRun()
		if ok && !next.Equal(announced) {
			announced = next
			logger.Info("Next reminder", "at", next.Format(time.RFC3339))
		}
	}
	announce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.Sync(ctx); err != nil {
				logger.Warn("Reminder sync failed", "error", err)
			}
			announce()
		}
	}
}

// register replaces the local registration. Callers hold p.mu.
func (p *CronPlatform) register(trigger models.Trigger) error {
	spec := fmt.Sprintf("0 %d %d * * *", trigger.Minute, trigger.Hour)
	id, err := p.cron.AddFunc(spec, func() { p.fire(trigger) })
	if err != nil {
		return fmt.Errorf("register cron entry: %w", err)
	}

	p.unregister()
	p.entry = id
	p.active = &trigger
	return nil
}

// unregister drops the local registration. Callers hold p.mu.
func (p *CronPlatform) unregister() {
	if p.active == nil {
		return
	}
	p.cron.Remove(p.entry)
	p.entry = 0
	p.active = nil
}

func (p *CronPlatform) fire(trigger models.Trigger) {
	if err := p.Deliver(context.Background(), trigger); err != nil {
		logger.Error("Failed to deliver reminder", "id", trigger.ID, "error", err)
	}
}

// Deliver sends trigger through the sender, retrying transient failures.
func (p *CronPlatform) Deliver(ctx context.Context, trigger models.Trigger) error {
	if p.sender == nil {
		return fmt.Errorf("no notification sender configured")
	}

	var err error
	for attempt := 1; attempt <= constants.NotifyMaxRetries; attempt++ {
		if err = p.sender.Send(ctx, trigger.Title, trigger.Body); err == nil {
			logger.Info("Reminder delivered", "id", trigger.ID, "channel", p.sender.Name())
			return nil
		}
		logger.Debug("Reminder delivery attempt failed", "attempt", attempt, "error", err)

		if attempt == constants.NotifyMaxRetries {
			break
		}
		if perr := p.pause(ctx); perr != nil {
			return perr
		}
	}
	return fmt.Errorf("deliver reminder after %d attempts: %w", constants.NotifyMaxRetries, err)
}

func retryPause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(constants.NotifyRetryDelay):
		return nil
	}
}
