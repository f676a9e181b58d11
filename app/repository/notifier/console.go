package notifier

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"io"
	"log/slog"
	"strings"
	"sync"
)

var rule = strings.Repeat("=", 40)

// ConsoleNotifier prints each notification as a framed block.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) ChannelName() string {
	return domain.ChannelConsole
}

func (n *ConsoleNotifier) Update(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "[consoleNotifier] Update", "message", message)

	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintf(n.out, "%s\nNOTIFICATION: %s\n%s\n", rule, message, rule)
	if err != nil {
		return fmt.Errorf("write console notification: %w", err)
	}
	return nil
}
