package domain

import (
	"context"
	"strings"
)

const (
	ChannelAll     = "ALL"
	ChannelConsole = "CONSOLE"
	ChannelEmail   = "EMAIL"
)

type NotificationRequest struct {
	Message string `json:"message" validate:"required"`
	Channel string `json:"channel"`
	// Type is accepted as an alias of Channel for older callers.
	Type string `json:"type,omitempty"`
}

// TargetChannel returns the requested channel, defaulting to ALL.
func (r NotificationRequest) TargetChannel() string {
	ch := strings.TrimSpace(r.Channel)
	if ch == "" {
		ch = strings.TrimSpace(r.Type)
	}
	if ch == "" {
		return ChannelAll
	}
	return ch
}

func (r NotificationRequest) IsBroadcast() bool {
	return strings.EqualFold(r.TargetChannel(), ChannelAll)
}

type NotificationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Observer is a notification channel.
type Observer interface {
	Update(ctx context.Context, message string) error
	ChannelName() string
}

type DispatchResult struct {
	Matched   int `json:"matched"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

type NotificationService interface {
	Send(ctx context.Context, req NotificationRequest) DispatchResult
	Channels() []string
}

// NotificationClient sends a notification to the notification service.
type NotificationClient interface {
	Send(ctx context.Context, req NotificationRequest) error
}
