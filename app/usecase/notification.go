package usecase

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/pkg/metrics"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

type notificationUsecase struct {
	observers []domain.Observer
}

// NewNotificationUsecase copies observers; the set is fixed from here on and
// shared by concurrent senders without locking.
func NewNotificationUsecase(observers ...domain.Observer) domain.NotificationService {
	return &notificationUsecase{observers: append([]domain.Observer(nil), observers...)}
}

func (u *notificationUsecase) Send(ctx context.Context, req domain.NotificationRequest) domain.DispatchResult {
	return Dispatch(ctx, req, u.observers)
}

func (u *notificationUsecase) Channels() []string {
	channels := make([]string, 0, len(u.observers))
	for _, o := range u.observers {
		channels = append(channels, o.ChannelName())
	}
	return channels
}

// Dispatch broadcasts req to every observer when its channel is empty or ALL,
// otherwise to the observers whose channel name matches case-insensitively.
// An unmatched channel reaches nobody and is not an error. Observer failures
// are logged and do not stop delivery to the others.
func Dispatch(ctx context.Context, req domain.NotificationRequest, observers []domain.Observer) domain.DispatchResult {
	var result domain.DispatchResult
	channel := req.TargetChannel()
	broadcast := req.IsBroadcast()

	for _, o := range observers {
		if !broadcast && !strings.EqualFold(o.ChannelName(), channel) {
			continue
		}
		result.Matched++

		if err := notify(ctx, o, req.Message); err != nil {
			result.Failed++
			slog.ErrorContext(ctx, "[notificationUsecase] Dispatch", "channel", o.ChannelName(), "update", err)
			metrics.Inc(ctx, metrics.NotificationsDispatched,
				attribute.String("channel", o.ChannelName()),
				attribute.String("outcome", metrics.OutcomeFailed))
			continue
		}
		result.Delivered++
		metrics.Inc(ctx, metrics.NotificationsDispatched,
			attribute.String("channel", o.ChannelName()),
			attribute.String("outcome", metrics.OutcomeOK))
	}

	if result.Matched == 0 && !broadcast {
		slog.WarnContext(ctx, "[notificationUsecase] Dispatch", "noObserverForChannel", channel)
	}
	return result
}

func notify(ctx context.Context, o domain.Observer, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return o.Update(ctx, message)
}
