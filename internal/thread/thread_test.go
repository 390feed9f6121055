package thread

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mtx  sync.Mutex
	msgs []domain.Message
}

func (m *memStore) Append(_ context.Context, msg *domain.Message) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	msg.Seq = int64(len(m.msgs) + 1)
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memStore) ListByBooking(_ context.Context, bookingID string) ([]domain.Message, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	var out []domain.Message
	for _, msg := range m.msgs {
		if msg.BookingID != nil && *msg.BookingID == bookingID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func msgAt(id, bookingID string, ts time.Time) domain.Message {
	return domain.Message{
		ID:        id,
		From:      "+39123456789",
		To:        "+39000000000",
		Body:      "body " + id,
		Timestamp: ts,
		Direction: domain.DirectionIncoming,
	}.ForBooking(bookingID)
}

func TestAppendValidates(t *testing.T) {
	th := New(&memStore{})
	ctx := context.Background()

	msg := msgAt("1", "b-1", time.Now())
	msg.Body = "   "
	assert.ErrorIs(t, th.Append(ctx, msg), domain.ErrInvalidMessage)

	msg = msgAt("2", "b-1", time.Now())
	msg.Direction = "sideways"
	assert.ErrorIs(t, th.Append(ctx, msg), domain.ErrInvalidMessage)

	assert.NoError(t, th.Append(ctx, msgAt("3", "b-1", time.Now())))
}

func TestForBookingOrdersByTimestamp(t *testing.T) {
	base := time.Date(2023, 5, 19, 9, 30, 0, 0, time.UTC)
	msgs := make([]domain.Message, 0, 20)
	for i := range 20 {
		msgs = append(msgs, msgAt(string(rune('a'+i)), "b-1", base.Add(time.Duration(i%7)*time.Minute)))
	}

	for range 10 {
		rand.Shuffle(len(msgs), func(i, j int) { msgs[i], msgs[j] = msgs[j], msgs[i] })

		th := New(&memStore{})
		for _, m := range msgs {
			require.NoError(t, th.Append(context.Background(), m))
		}
		require.NoError(t, th.Append(context.Background(), msgAt("other", "b-2", base)))

		got, err := th.ForBooking(context.Background(), "b-1")
		require.NoError(t, err)
		require.Len(t, got, 20)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Timestamp.Before(got[i-1].Timestamp))
		}
	}
}

func TestForBookingStableForEqualTimestamps(t *testing.T) {
	ts := time.Date(2023, 5, 20, 8, 15, 0, 0, time.UTC)
	th := New(&memStore{})
	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, th.Append(context.Background(), msgAt(id, "b-1", ts)))
	}

	got, err := th.ForBooking(context.Background(), "b-1")
	require.NoError(t, err)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"first", "second", "third"}, ids)

	again, err := th.ForBooking(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}
