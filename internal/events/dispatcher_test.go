package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

type recordingSubscriber struct {
	received []domain.Event
}

func (r *recordingSubscriber) Handle(ctx context.Context, e domain.Event) {
	r.received = append(r.received, e)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestDispatcher_PublishFansOut(t *testing.T) {
	d := NewDispatcher(nopLogger{})

	first := &recordingSubscriber{}
	second := &recordingSubscriber{}
	d.Subscribe(first)
	d.Subscribe(second)

	event := domain.Event{Type: domain.EventBookingCreated, BookingID: 10}
	d.Publish(context.Background(), event)

	assert.Len(t, first.received, 1)
	assert.Len(t, second.received, 1)
	assert.Equal(t, domain.EventBookingCreated, first.received[0].Type)
}

func TestDispatcher_PublishWithoutSubscribers(t *testing.T) {
	d := NewDispatcher(nopLogger{})

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), domain.Event{Type: domain.EventBookingCreated})
	})
}
