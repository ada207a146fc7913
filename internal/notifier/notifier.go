// Package notifier registers the recurring daily reminder and delivers it
// through a Sender.
package notifier

import "context"

// Platform is the OS-level notification collaborator the reminder
// scheduler talks to.
type Platform interface {
	PermissionGranted(ctx context.Context) bool
	RequestPermission(ctx context.Context) (bool, error)
	CancelAll(ctx context.Context) error
	ScheduleRecurring(ctx context.Context, hour, minute int, title, body string) error
}

// Sender delivers a single notification.
type Sender interface {
	// Available reports whether the sender can currently deliver. It backs
	// the permission prompt.
	Available(ctx context.Context) bool
	Send(ctx context.Context, title, body string) error
	Name() string
}

const (
	permissionGranted = "granted"
	permissionDenied  = "denied"
)
