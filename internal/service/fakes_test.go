package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/webhook"
)

type postCall struct {
	url     string
	payload any
}

// fakePoster records posts. With hang set it behaves like an endpoint that
// never answers and returns only when ctx is done.
type fakePoster struct {
	mtx   sync.Mutex
	calls []postCall
	err   error
	hang  bool
}

func (p *fakePoster) PostJSON(ctx context.Context, url string, payload any) (*webhook.Response, error) {
	p.mtx.Lock()
	p.calls = append(p.calls, postCall{url: url, payload: payload})
	hang, err := p.hang, p.err
	p.mtx.Unlock()
	if hang {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailure, ctx.Err())
	}
	if err != nil {
		return nil, err
	}
	return &webhook.Response{StatusCode: 200, RequestID: "req-1"}, nil
}

func (p *fakePoster) Calls() []postCall {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return append([]postCall(nil), p.calls...)
}

type fakeSender struct {
	mtx  sync.Mutex
	sent []domain.Message
	err  error
	hang bool
}

func (s *fakeSender) Send(ctx context.Context, msg domain.Message) (string, error) {
	if s.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, msg)
	return "provider-" + msg.ID, nil
}

func (s *fakeSender) Sent() []domain.Message {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return append([]domain.Message(nil), s.sent...)
}

type notification struct {
	bookingID, to, body string
}

type fakeNotifier struct {
	mtx  sync.Mutex
	sent []notification
}

func (n *fakeNotifier) SendBookingMessage(_ context.Context, bookingID, to, body string) *domain.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.sent = append(n.sent, notification{bookingID: bookingID, to: to, body: body})
	return &domain.Message{ID: "n", BookingID: &bookingID, To: to, Body: body, Direction: domain.DirectionOutgoing}
}

func (n *fakeNotifier) Sent() []notification {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return append([]notification(nil), n.sent...)
}

type memConversation struct {
	mtx  sync.Mutex
	msgs []domain.Message
}

func (c *memConversation) Append(_ context.Context, msg domain.Message) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *memConversation) ForBooking(_ context.Context, bookingID string) ([]domain.Message, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	out := make([]domain.Message, 0)
	for _, m := range c.msgs {
		if m.BookingID != nil && *m.BookingID == bookingID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *memConversation) All() []domain.Message {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]domain.Message(nil), c.msgs...)
}

type memBookings struct {
	mtx       sync.Mutex
	bookings  map[string]domain.Booking
	order     []string
	changes   []domain.StatusChange
	updateErr error
}

func newMemBookings(bookings ...domain.Booking) *memBookings {
	m := &memBookings{bookings: make(map[string]domain.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
		m.order = append(m.order, b.ID)
	}
	return m
}

func (m *memBookings) Create(_ context.Context, b *domain.Booking) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.bookings[b.ID] = *b
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memBookings) Get(_ context.Context, id string) (*domain.Booking, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (m *memBookings) LatestForCustomer(_ context.Context, customerID string) (*domain.Booking, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		b := m.bookings[m.order[i]]
		if b.CustomerID == customerID {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBookings) LatestOpenForCustomer(_ context.Context, customerID string) (*domain.Booking, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		b := m.bookings[m.order[i]]
		if b.CustomerID == customerID && !b.Status.IsTerminal() {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBookings) UpdateStatus(_ context.Context, b domain.Booking, previous domain.Booking) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !stored.UpdatedAt.Equal(previous.UpdatedAt) {
		return domain.ErrConcurrentUpdate
	}
	m.bookings[b.ID] = b
	m.changes = append(m.changes, domain.StatusChange{
		BookingID:  b.ID,
		FromStatus: previous.Status,
		ToStatus:   b.Status,
		ChangedAt:  b.UpdatedAt,
	})
	return nil
}

type memCustomers map[string]domain.Customer

func (m memCustomers) Get(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m memCustomers) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	for _, c := range m {
		if c.PhoneNumber == phone {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type published struct {
	kind    domain.EventKind
	payload any
}

// fakeWorkflow records published events. A non-nil release channel holds
// every Publish until it is closed.
type fakeWorkflow struct {
	mtx     sync.Mutex
	events  []published
	release chan struct{}
}

func (w *fakeWorkflow) Publish(_ context.Context, kind domain.EventKind, payload any) bool {
	if w.release != nil {
		<-w.release
	}
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.events = append(w.events, published{kind: kind, payload: payload})
	return true
}

func (w *fakeWorkflow) Events() []published {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return append([]published(nil), w.events...)
}

func (w *fakeWorkflow) Kinds() []domain.EventKind {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	kinds := make([]domain.EventKind, 0, len(w.events))
	for _, e := range w.events {
		kinds = append(kinds, e.kind)
	}
	return kinds
}

type fakeBus struct {
	mtx  sync.Mutex
	keys []string
	err  error
}

func (b *fakeBus) PublishJSON(_ context.Context, key string, _ any) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.keys = append(b.keys, key)
	return b.err
}

func (b *fakeBus) Keys() []string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return append([]string(nil), b.keys...)
}

func (b *fakeBus) Close() error { return nil }

var errChannelDown = errors.New("channel down")
