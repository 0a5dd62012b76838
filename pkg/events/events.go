package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/staylink/staylink-backend/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	AccountRegistered = "account.registered"

	CheckinCodeIssued  = "checkin.code.issued"
	CheckinCodeRevoked = "checkin.code.revoked"

	StayCheckedIn  = "stay.checked_in"
	StayCheckedOut = "stay.checked_out"
)

// Event payloads
type AccountRegisteredEvent struct {
	UserID       int64     `json:"user_id"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type CheckinCodeIssuedEvent struct {
	AccessCodeID int64     `json:"access_code_id"`
	HotelID      int64     `json:"hotel_id"`
	CodeLabel    string    `json:"code_label"`
	ExpiresAt    time.Time `json:"expires_at"`
	IssuedAt     time.Time `json:"issued_at"`
}

type CheckinCodeRevokedEvent struct {
	AccessCodeID int64     `json:"access_code_id"`
	HotelID      int64     `json:"hotel_id"`
	CodeLabel    string    `json:"code_label"`
	RevokedAt    time.Time `json:"revoked_at"`
}

type StayCheckedInEvent struct {
	StayID      int64     `json:"stay_id"`
	GuestUserID int64     `json:"guest_user_id"`
	HotelID     int64     `json:"hotel_id"`
	CheckInAt   time.Time `json:"check_in_at"`
}

type StayCheckedOutEvent struct {
	StayID      int64     `json:"stay_id"`
	GuestUserID int64     `json:"guest_user_id"`
	HotelID     int64     `json:"hotel_id"`
	CheckOutAt  time.Time `json:"check_out_at"`
	By          string    `json:"by"` // guest or hotel
}
