package usecase

import (
	"context"
	"errors"
	"inventory-platform/app/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func observers(channels ...string) ([]domain.Observer, []*MockObserver) {
	var list []domain.Observer
	var mocks []*MockObserver
	for _, ch := range channels {
		o := newMockObserver(ch)
		o.On("Update", mock.Anything, mock.Anything).Return(nil)
		list = append(list, o)
		mocks = append(mocks, o)
	}
	return list, mocks
}

func TestDispatch_BroadcastReachesEveryObserverOnce(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		channels := []string{"CONSOLE", "EMAIL", "SMS"}[:n]
		list, mocks := observers(channels...)

		for _, ch := range []string{"ALL", "all", ""} {
			for _, o := range mocks {
				o.Calls = nil
			}

			result := Dispatch(context.Background(), domain.NotificationRequest{Message: "hello", Channel: ch}, list)

			assert.Equal(t, domain.DispatchResult{Matched: n, Delivered: n}, result)
			for _, o := range mocks {
				o.AssertNumberOfCalls(t, "Update", 1)
				o.AssertCalled(t, "Update", mock.Anything, "hello")
			}
		}
	}
}

func TestDispatch_RoutesByChannelIgnoringCase(t *testing.T) {
	list, mocks := observers("CONSOLE", "EMAIL", "console")

	result := Dispatch(context.Background(), domain.NotificationRequest{Message: "m", Channel: "Console"}, list)

	assert.Equal(t, domain.DispatchResult{Matched: 2, Delivered: 2}, result)
	mocks[0].AssertNumberOfCalls(t, "Update", 1)
	mocks[1].AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mocks[2].AssertNumberOfCalls(t, "Update", 1)
}

func TestDispatch_UnknownChannelIsNoOp(t *testing.T) {
	list, mocks := observers("CONSOLE", "EMAIL")

	result := Dispatch(context.Background(), domain.NotificationRequest{Message: "m", Channel: "PAGER"}, list)

	assert.Equal(t, domain.DispatchResult{}, result)
	for _, o := range mocks {
		o.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	}
}

func TestDispatch_TypeAliasRoutes(t *testing.T) {
	list, mocks := observers("CONSOLE", "EMAIL")

	Dispatch(context.Background(), domain.NotificationRequest{Message: "m", Type: "EMAIL"}, list)

	mocks[0].AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mocks[1].AssertNumberOfCalls(t, "Update", 1)
}

type panickingObserver struct{}

func (panickingObserver) ChannelName() string { return "PANIC" }

func (panickingObserver) Update(context.Context, string) error { panic("smtp client nil") }

func TestDispatch_ObserverFailureIsIsolated(t *testing.T) {
	failing := newMockObserver("EMAIL")
	failing.On("Update", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	before := newMockObserver("CONSOLE")
	before.On("Update", mock.Anything, mock.Anything).Return(nil)
	after := newMockObserver("SLACK")
	after.On("Update", mock.Anything, mock.Anything).Return(nil)

	list := []domain.Observer{before, failing, panickingObserver{}, after}
	result := Dispatch(context.Background(), domain.NotificationRequest{Message: "m", Channel: "ALL"}, list)

	assert.Equal(t, domain.DispatchResult{Matched: 4, Delivered: 2, Failed: 2}, result)
	before.AssertNumberOfCalls(t, "Update", 1)
	failing.AssertNumberOfCalls(t, "Update", 1)
	after.AssertNumberOfCalls(t, "Update", 1)
}

func TestNotificationUsecase(t *testing.T) {
	list, mocks := observers("CONSOLE", "EMAIL")
	u := NewNotificationUsecase(list...)

	assert.Equal(t, []string{"CONSOLE", "EMAIL"}, u.Channels())

	result := u.Send(context.Background(), domain.NotificationRequest{Message: "low stock"})
	assert.Equal(t, 2, result.Delivered)
	for _, o := range mocks {
		o.AssertCalled(t, "Update", mock.Anything, "low stock")
	}
}

func TestNotificationUsecase_ObserverSetIsCopied(t *testing.T) {
	list, _ := observers("CONSOLE")
	u := NewNotificationUsecase(list...)

	list[0] = newMockObserver("EMAIL")
	assert.Equal(t, []string{"CONSOLE"}, u.Channels())
}
