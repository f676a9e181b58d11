package notifier

import (
	"context"
	"inventory-platform/app/domain"
	"log/slog"
)

const emailSubject = "Inventory Update"

// EmailNotifier records outgoing mail in the log. Delivery through a mail
// provider is handled outside this service.
type EmailNotifier struct {
	recipient string
}

func NewEmailNotifier(recipient string) *EmailNotifier {
	return &EmailNotifier{recipient: recipient}
}

func (n *EmailNotifier) ChannelName() string {
	return domain.ChannelEmail
}

func (n *EmailNotifier) Update(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "[emailNotifier] Update",
		"to", n.recipient,
		"subject", emailSubject,
		"body", message)
	return nil
}
