package notify

import (
	"context"
	"log/slog"

	"github.com/loomchat/loom/pkg/slogx"
)

// Log is the notifier used when no email service is configured. It records
// the send instead of delivering it, which keeps local development and tests
// honest about what would have gone out.
type Log struct{}

var _ Notifier = Log{}

func (Log) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("email delivery skipped: no email service configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
