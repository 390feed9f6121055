package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	rediscache "github.com/aniladanir/pharmacy-messenger-service/internal/cache/redis"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workflowURL = "https://automation.example.com/hook"

type triggerFixture struct {
	trigger   *WorkflowTrigger
	poster    *fakePoster
	notifier  *fakeNotifier
	scheduler *scheduler.Scheduler
}

func newTriggerFixture(t *testing.T, configure bool) triggerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := rediscache.NewRedisCache(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	sched := scheduler.New(discardLogger)
	t.Cleanup(func() { _ = sched.Stop(context.Background()) })

	f := triggerFixture{
		poster:    &fakePoster{},
		notifier:  &fakeNotifier{},
		scheduler: sched,
	}
	f.trigger = NewWorkflowTrigger(TriggerConfig{
		Poster:      f.poster,
		Notifier:    f.notifier,
		Scheduler:   sched,
		Cache:       c,
		NotifyDelay: 10 * time.Millisecond,
		Logger:      discardLogger,
	})
	if configure {
		require.NoError(t, f.trigger.ConfigureEndpoint(workflowURL))
	}
	return f
}

func updatedPayload(status domain.BookingStatus) domain.BookingEventPayload {
	return domain.BookingEventPayload{
		Booking:        domain.Booking{ID: "b-1", CustomerID: "c-1", Status: status},
		Customer:       domain.Customer{ID: "c-1", PhoneNumber: "+393331234567"},
		PreviousStatus: domain.StatusPending,
	}
}

func waitScheduled(t *testing.T, s *scheduler.Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestPublishWithoutEndpointIsDropped(t *testing.T) {
	f := newTriggerFixture(t, false)

	ok := f.trigger.Publish(context.Background(), domain.EventBookingUpdated, updatedPayload(domain.StatusConfirmed))

	assert.False(t, ok)
	assert.Empty(t, f.poster.Calls())
	assert.Zero(t, f.scheduler.Pending())
}

func TestPublishPostsEnvelope(t *testing.T) {
	f := newTriggerFixture(t, true)

	ok := f.trigger.Publish(context.Background(), domain.EventBookingCreated, updatedPayload(domain.StatusPending))
	require.True(t, ok)

	calls := f.poster.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, workflowURL, calls[0].url)

	ev, isEvent := calls[0].payload.(domain.WorkflowEvent)
	require.True(t, isEvent)
	assert.Equal(t, domain.EventBookingCreated, ev.Kind)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.OccurredAt.IsZero())

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event":"booking_created"`)

	assert.Zero(t, f.scheduler.Pending(), "only booking updates notify the customer")
}

func TestPublishBookingUpdateNotifiesCustomerLater(t *testing.T) {
	f := newTriggerFixture(t, true)

	ok := f.trigger.Publish(context.Background(), domain.EventBookingUpdated, updatedPayload(domain.StatusReady))
	require.True(t, ok)

	waitScheduled(t, f.scheduler)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "b-1", sent[0].bookingID)
	assert.Equal(t, "+393331234567", sent[0].to)
	assert.Equal(t, StatusMessage(domain.StatusReady), sent[0].body)
}

func TestPublishBookingUpdateAcceptsPointerPayload(t *testing.T) {
	f := newTriggerFixture(t, true)
	p := updatedPayload(domain.StatusConfirmed)

	require.True(t, f.trigger.Publish(context.Background(), domain.EventBookingUpdated, &p))
	waitScheduled(t, f.scheduler)

	require.Len(t, f.notifier.Sent(), 1)
}

func TestPublishFailureSkipsNotification(t *testing.T) {
	f := newTriggerFixture(t, true)
	f.poster.err = domain.ErrDeliveryFailure

	ok := f.trigger.Publish(context.Background(), domain.EventBookingUpdated, updatedPayload(domain.StatusConfirmed))

	assert.False(t, ok)
	assert.Zero(t, f.scheduler.Pending())
	assert.Empty(t, f.notifier.Sent())
}

func TestPublishGivesUpOnHangingEndpoint(t *testing.T) {
	f := newTriggerFixture(t, true)
	f.trigger.publishTimeout = 50 * time.Millisecond
	f.poster.hang = true

	start := time.Now()
	ok := f.trigger.Publish(context.Background(), domain.EventBookingUpdated, updatedPayload(domain.StatusConfirmed))

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, f.poster.Calls(), 1)
	assert.Zero(t, f.scheduler.Pending())
}

func TestStoppingSchedulerCancelsNotification(t *testing.T) {
	f := newTriggerFixture(t, true)
	f.trigger.notifyDelay = time.Hour

	require.True(t, f.trigger.Publish(context.Background(), domain.EventBookingUpdated, updatedPayload(domain.StatusConfirmed)))
	assert.Equal(t, 1, f.scheduler.Pending())

	require.NoError(t, f.scheduler.Stop(context.Background()))
	assert.Zero(t, f.scheduler.Pending())
	assert.Empty(t, f.notifier.Sent())
}

func TestReceiveEventKnownTypes(t *testing.T) {
	f := newTriggerFixture(t, false)

	tests := []struct {
		eventType string
		message   string
	}{
		{domain.InboundMessageProcessed, "Message processing event received"},
		{domain.InboundBookingConfirmation, "Booking confirmation event received"},
		{domain.InboundReminderScheduled, "Reminder scheduling event received"},
	}
	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			data := json.RawMessage(`{"bookingId":"b-1"}`)
			res := f.trigger.ReceiveEvent(context.Background(), domain.InboundEvent{EventType: tt.eventType, Data: data})

			assert.True(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.JSONEq(t, string(data), string(res.Data))
		})
	}
}

func TestReceiveEventUnknownType(t *testing.T) {
	f := newTriggerFixture(t, false)

	res := f.trigger.ReceiveEvent(context.Background(), domain.InboundEvent{EventType: "inventory_low"})

	assert.False(t, res.Success)
	assert.Equal(t, "Unknown event type: inventory_low", res.Message)
}

func TestReceiveEventDuplicate(t *testing.T) {
	f := newTriggerFixture(t, false)
	ev := domain.InboundEvent{ID: "evt-1", EventType: domain.InboundBookingConfirmation}

	first := f.trigger.ReceiveEvent(context.Background(), ev)
	second := f.trigger.ReceiveEvent(context.Background(), ev)

	assert.Equal(t, "Booking confirmation event received", first.Message)
	assert.True(t, second.Success)
	assert.Equal(t, "Event already processed", second.Message)
}

func TestTriggerEndpointConfiguration(t *testing.T) {
	f := newTriggerFixture(t, false)

	assert.ErrorIs(t, f.trigger.ConfigureEndpoint("ftp//nope"), domain.ErrInvalidEndpoint)
	_, ok := f.trigger.Endpoint()
	assert.False(t, ok)

	require.NoError(t, f.trigger.ConfigureEndpoint(workflowURL))
	url, ok := f.trigger.Endpoint()
	assert.True(t, ok)
	assert.Equal(t, workflowURL, url)
}
