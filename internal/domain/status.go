package domain

import (
	"fmt"
	"slices"
	"strings"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusReady     BookingStatus = "ready"
	StatusDelivered BookingStatus = "delivered"
	StatusCancelled BookingStatus = "cancelled"
)

// allowedNext lists, for every known status, the statuses a booking may move to.
var allowedNext = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s BookingStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the five known statuses.
func (s BookingStatus) IsValid() bool {
	_, ok := allowedNext[s]
	return ok
}

// IsTerminal reports whether no transition out of s is possible.
// Unknown statuses are treated as terminal.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedNext[s]) == 0
}

// CanTransitionTo reports whether target is in the allowed-next set of s.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	return slices.Contains(allowedNext[s], target)
}

// AllowedNext returns a copy of the allowed-next set of s.
func (s BookingStatus) AllowedNext() []BookingStatus {
	return slices.Clone(allowedNext[s])
}

// AllBookingStatuses returns the known statuses in lifecycle order.
func AllBookingStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusReady, StatusDelivered, StatusCancelled}
}

// OpenBookingStatuses returns the statuses a booking can still leave, in lifecycle order.
func OpenBookingStatuses() []BookingStatus {
	open := make([]BookingStatus, 0, len(allowedNext))
	for _, s := range AllBookingStatuses() {
		if !s.IsTerminal() {
			open = append(open, s)
		}
	}
	return open
}

// ParseBookingStatus converts free text typed by staff into a BookingStatus.
// Surrounding spaces and letter case are ignored.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}
