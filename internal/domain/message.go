package domain

import "time"

// MaxAddressLength is the longest channel address stored on a message,
// provider prefixes such as "whatsapp:" included.
const MaxAddressLength = 64

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

func (d Direction) IsValid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// Message is immutable once stored. Seq keeps insertion order for messages
// sharing a timestamp.
type Message struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Seq       int64     `gorm:"autoIncrement;index" json:"-"`
	From      string    `gorm:"column:from_address;size:64;not null" json:"from"`
	To        string    `gorm:"column:to_address;size:64;not null" json:"to"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Timestamp time.Time `gorm:"column:sent_at;not null;index" json:"timestamp"`
	Direction Direction `gorm:"type:varchar(10);not null" json:"direction"`
	BookingID *string   `gorm:"type:varchar(64);index" json:"bookingId,omitempty"`
	Processed bool      `gorm:"not null" json:"processed"`
}

// ForBooking returns a copy of m associated with bookingID.
func (m Message) ForBooking(bookingID string) Message {
	if bookingID != "" {
		m.BookingID = &bookingID
	}
	return m
}

// ChannelResponse is the body returned by the messaging provider on accept.
type ChannelResponse struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}
