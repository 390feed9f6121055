package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/messaging"
	"github.com/aniladanir/pharmacy-messenger-service/internal/messaging/noop"
	"github.com/aniladanir/pharmacy-messenger-service/internal/observability/metrics"
	"github.com/aniladanir/pharmacy-messenger-service/internal/scheduler"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var bookingsTracer = otel.Tracer("pharmacy.internal.service.bookings")

const (
	noOpenBookingResponse = "Non abbiamo trovato prenotazioni attive a suo nome."
	cancelFailedResponse  = "Non è stato possibile annullare la prenotazione. La preghiamo di riprovare tra qualche minuto."
)

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id string) (*domain.Booking, error)
	LatestForCustomer(ctx context.Context, customerID string) (*domain.Booking, error)
	LatestOpenForCustomer(ctx context.Context, customerID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, b domain.Booking, previous domain.Booking) error
}

type CustomerStore interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type ConversationStore interface {
	Append(ctx context.Context, msg domain.Message) error
	ForBooking(ctx context.Context, bookingID string) ([]domain.Message, error)
}

type Gateway interface {
	SendBookingMessage(ctx context.Context, bookingID, to, body string) *domain.Message
	ProcessIncoming(ctx context.Context, from, body string) IncomingResult
}

type WorkflowPublisher interface {
	Publish(ctx context.Context, kind domain.EventKind, payload any) bool
}

type BookingServiceConfig struct {
	Bookings       BookingStore
	Customers      CustomerStore
	Thread         ConversationStore
	Gateway        Gateway
	Workflow       WorkflowPublisher
	Bus            messaging.EventPublisher
	// Scheduler runs event dispatch off the request path.
	Scheduler      *scheduler.Scheduler
	PublishTimeout time.Duration
	Metrics        *metrics.MessagingMetrics
	Logger         *slog.Logger
	PharmacyNumber string
}

// BookingService applies booking status transitions and the messaging that follows them.
type BookingService struct {
	bookings       BookingStore
	customers      CustomerStore
	thread         ConversationStore
	gateway        Gateway
	workflow       WorkflowPublisher
	bus            messaging.EventPublisher
	scheduler      *scheduler.Scheduler
	publishTimeout time.Duration
	metrics        *metrics.MessagingMetrics
	logger         *slog.Logger
	pharmacyNumber string
	now            func() time.Time
}

type pendingEvent struct {
	kind    domain.EventKind
	payload any
}

type BookingDetails struct {
	Booking  domain.Booking  `json:"booking"`
	Customer domain.Customer `json:"customer"`
}

type NewBookingRequest struct {
	CustomerID      string                  `json:"customerId" binding:"required"`
	Medications     []domain.MedicationLine `json:"medications" binding:"required"`
	PrescriptionURL string                  `json:"prescriptionUrl"`
	PickupTime      *time.Time              `json:"pickupTime"`
	Notes           string                  `json:"notes"`
}

// InboundOutcome describes what was done with a customer's message.
type InboundOutcome struct {
	Result    IncomingResult  `json:"result"`
	Message   domain.Message  `json:"message"`
	Reply     *domain.Message `json:"reply,omitempty"`
	BookingID string          `json:"bookingId,omitempty"`
}

func NewBookingService(cfg BookingServiceConfig) *BookingService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Bus == nil {
		cfg.Bus = noop.Publisher{}
	}
	if cfg.PharmacyNumber == "" {
		cfg.PharmacyNumber = DefaultPharmacyNumber
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.New(cfg.Logger)
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}
	return &BookingService{
		bookings:       cfg.Bookings,
		customers:      cfg.Customers,
		thread:         cfg.Thread,
		gateway:        cfg.Gateway,
		workflow:       cfg.Workflow,
		bus:            cfg.Bus,
		scheduler:      cfg.Scheduler,
		publishTimeout: cfg.PublishTimeout,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		pharmacyNumber: cfg.PharmacyNumber,
		now:            func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create registers a pending booking.
func (s *BookingService) Create(ctx context.Context, req NewBookingRequest) (*domain.Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.create")
	defer span.End()

	now := s.now()
	b := domain.Booking{
		ID:              uuid.NewString(),
		CustomerID:      req.CustomerID,
		Status:          domain.StatusPending,
		Medications:     req.Medications,
		PrescriptionURL: req.PrescriptionURL,
		PickupTime:      req.PickupTime,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := b.Validate(); err != nil {
		return nil, recordErr(span, err)
	}

	customer, err := s.customers.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("%w: %w", domain.ErrInvalidBooking, err))
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return nil, recordErr(span, fmt.Errorf("create booking: %w", err))
	}
	span.SetAttributes(attribute.String("pharmacy.booking_id", b.ID))
	s.logger.Info("booking created", "bookingId", b.ID, "customerId", b.CustomerID)

	s.publish(ctx, pendingEvent{domain.EventBookingCreated, domain.BookingEventPayload{Booking: b, Customer: *customer}})
	return &b, nil
}

// Get returns a booking and its customer.
func (s *BookingService) Get(ctx context.Context, id string) (*BookingDetails, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetails{Booking: *b, Customer: s.customerOf(ctx, b)}, nil
}

// UpdateStatus moves a booking to the status typed by staff. Unknown status
// text is rejected and the booking is left as it was.
func (s *BookingService) UpdateStatus(ctx context.Context, id, rawStatus string) (*domain.Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("pharmacy.booking_id", id),
		attribute.String("pharmacy.status", rawStatus),
	)

	next, err := domain.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, recordErr(span, err)
	}

	details, err := s.Get(ctx, id)
	if err != nil {
		return nil, recordErr(span, err)
	}

	updated, err := s.transition(ctx, details.Booking, details.Customer, next)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return updated, nil
}

// transition persists the move to next and then queues its events. It returns
// once the change is committed; publishing never delays or fails it.
func (s *BookingService) transition(ctx context.Context, b domain.Booking, customer domain.Customer, next domain.BookingStatus) (*domain.Booking, error) {
	updated, err := b.Transition(next, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, updated, b); err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(b.Status), string(next))
	s.logger.Info("booking status updated", "bookingId", b.ID, "from", b.Status, "to", next)

	payload := domain.BookingEventPayload{Booking: updated, Customer: customer, PreviousStatus: b.Status}
	events := []pendingEvent{{domain.EventBookingUpdated, payload}}
	if next == domain.StatusCancelled {
		events = append(events, pendingEvent{domain.EventBookingCancelled, payload})
	}
	s.publish(ctx, events...)
	return &updated, nil
}

// SendMessage sends a staff message to the customer of a booking.
func (s *BookingService) SendMessage(ctx context.Context, bookingID, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrInvalidMessage)
	}
	details, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	msg := s.gateway.SendBookingMessage(ctx, bookingID, details.Customer.PhoneNumber, body)
	if msg == nil {
		return nil, fmt.Errorf("%w: message to %s", domain.ErrDeliveryFailure, details.Customer.PhoneNumber)
	}

	s.publish(ctx, pendingEvent{domain.EventMessageReceived, domain.MessageEventPayload{
		Message:  *msg,
		Booking:  &details.Booking,
		Customer: details.Customer,
	}})
	return msg, nil
}

// Conversation returns the messages exchanged about a booking, oldest first.
func (s *BookingService) Conversation(ctx context.Context, bookingID string) ([]domain.Message, error) {
	if _, err := s.bookings.Get(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.thread.ForBooking(ctx, bookingID)
}

// HandleInbound records a customer's message against their latest booking,
// acts on what it asks for and replies.
func (s *BookingService) HandleInbound(ctx context.Context, from, body string) (*InboundOutcome, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.handle_inbound")
	defer span.End()

	if strings.TrimSpace(body) == "" {
		return nil, recordErr(span, fmt.Errorf("%w: empty body", domain.ErrInvalidMessage))
	}
	if from == "" || len(from) > domain.MaxAddressLength {
		return nil, recordErr(span, fmt.Errorf("%w: sender address %q", domain.ErrInvalidMessage, from))
	}

	result := s.gateway.ProcessIncoming(ctx, from, body)

	// a cancellation is about the latest booking that can still be cancelled
	customer, booking, err := s.lookupSender(ctx, from, result.Action == ActionCancelBooking)
	if err != nil {
		return nil, recordErr(span, err)
	}

	var bookingID string
	if booking != nil {
		bookingID = booking.ID
		span.SetAttributes(attribute.String("pharmacy.booking_id", bookingID))
	}
	incoming := domain.Message{
		ID:        uuid.NewString(),
		From:      from,
		To:        s.pharmacyNumber,
		Body:      body,
		Timestamp: s.now(),
		Direction: domain.DirectionIncoming,
		Processed: result.Processed,
	}.ForBooking(bookingID)
	if err := s.thread.Append(ctx, incoming); err != nil {
		return nil, recordErr(span, fmt.Errorf("record incoming message: %w", err))
	}

	reply := result.Response
	switch result.Action {
	case ActionCancelBooking:
		if booking == nil || !booking.Status.CanTransitionTo(domain.StatusCancelled) {
			reply = noOpenBookingResponse
			break
		}
		updated, err := s.transition(ctx, *booking, customer, domain.StatusCancelled)
		if err != nil {
			s.logger.Error("failed to cancel booking on customer request", "bookingId", booking.ID, "error", err.Error())
			reply = cancelFailedResponse
			break
		}
		booking = updated
	case ActionStatusCheck:
		if booking == nil {
			reply = noOpenBookingResponse
			break
		}
		reply = StatusMessage(booking.Status)
	}

	outcome := &InboundOutcome{Result: result, Message: incoming, BookingID: bookingID}
	outcome.Reply = s.gateway.SendBookingMessage(ctx, bookingID, from, reply)
	if outcome.Reply == nil {
		s.logger.Warn("reply to customer was not delivered", "from", from, "bookingId", bookingID)
	}

	s.publish(ctx, pendingEvent{domain.EventMessageReceived, domain.MessageEventPayload{
		Message:  incoming,
		Booking:  booking,
		Customer: customer,
	}})
	return outcome, nil
}

// lookupSender finds the customer behind a phone number and their latest booking,
// or their latest open one when openOnly is set. Unknown senders are not an error.
func (s *BookingService) lookupSender(ctx context.Context, phone string, openOnly bool) (domain.Customer, *domain.Booking, error) {
	customer, err := s.customers.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Customer{PhoneNumber: phone}, nil, nil
	}
	if err != nil {
		return domain.Customer{}, nil, err
	}

	latest := s.bookings.LatestForCustomer
	if openOnly {
		latest = s.bookings.LatestOpenForCustomer
	}
	booking, err := latest(ctx, customer.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return *customer, nil, nil
	}
	if err != nil {
		return domain.Customer{}, nil, err
	}
	return *customer, booking, nil
}

func (s *BookingService) customerOf(ctx context.Context, b *domain.Booking) domain.Customer {
	customer, err := s.customers.Get(ctx, b.CustomerID)
	if err != nil {
		s.logger.Error("failed to load booking customer", "bookingId", b.ID, "customerId", b.CustomerID, "error", err.Error())
		return domain.Customer{ID: b.CustomerID}
	}
	return *customer
}

// publish queues events for the workflow endpoint and the event bus. They are
// sent in order on the scheduler, each delivery bounded by the publish timeout.
func (s *BookingService) publish(ctx context.Context, events ...pendingEvent) {
	if len(events) == 0 {
		return
	}
	parent := trace.SpanFromContext(ctx)

	_, err := s.scheduler.After(0, "publish-"+string(events[0].kind), func(taskCtx context.Context) {
		taskCtx = trace.ContextWithSpan(taskCtx, parent)
		for _, ev := range events {
			s.dispatch(taskCtx, ev)
		}
	})
	if err != nil {
		s.logger.Error("events dropped", "eventType", events[0].kind, "count", len(events), "error", err.Error())
	}
}

func (s *BookingService) dispatch(ctx context.Context, ev pendingEvent) {
	if s.workflow != nil {
		s.workflow.Publish(ctx, ev.kind, ev.payload)
	}

	busCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.bus.PublishJSON(busCtx, ev.kind.RoutingKey(), ev.payload); err != nil {
		s.logger.Error("failed to mirror event on bus", "eventType", ev.kind, "error", err.Error())
	}
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
