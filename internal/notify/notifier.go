package notify

import "context"

// Notifier tells staff about new inquiries.
type Notifier interface {
	NotifyAdmins(ctx context.Context, msg string)
	NotifyGroup(ctx context.Context, msg string)
}

// Noop is a no-op notifier.
type Noop struct{}

func (Noop) NotifyAdmins(context.Context, string) {}
func (Noop) NotifyGroup(context.Context, string)  {}
