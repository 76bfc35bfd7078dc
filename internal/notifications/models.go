package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingCheckedIn   EventType = "booking.checked_in"
	EventBookingCheckedOut  EventType = "booking.checked_out"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// BookingPayload carries what a guest-facing notifier needs without a database lookup
type BookingPayload struct {
	BookingID      uuid.UUID `json:"booking_id"`
	RoomID         uuid.UUID `json:"room_id"`
	RoomNumber     string    `json:"room_number,omitempty"`
	GuestName      string    `json:"guest_name"`
	Email          string    `json:"email,omitempty"`
	CheckIn        string    `json:"check_in"`
	CheckOut       string    `json:"check_out"`
	Status         string    `json:"status"`
	TotalPrice     float64   `json:"total_price"`
	AdvancePayment float64   `json:"advance_payment"`
	Balance        float64   `json:"balance"`
}

type OrderPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Total       float64   `json:"total"`
}

// OutletEvent is the envelope written to the outlet event topic, keyed by outlet
type OutletEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	OutletID   uuid.UUID       `json:"outlet_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Booking    *BookingPayload `json:"booking,omitempty"`
	Order      *OrderPayload   `json:"order,omitempty"`
}

func NewBookingEvent(t EventType, outletID uuid.UUID, payload BookingPayload) *OutletEvent {
	return &OutletEvent{
		ID:         uuid.New(),
		Type:       t,
		OutletID:   outletID,
		OccurredAt: time.Now().UTC(),
		Booking:    &payload,
	}
}

func NewOrderEvent(outletID uuid.UUID, payload OrderPayload) *OutletEvent {
	return &OutletEvent{
		ID:         uuid.New(),
		Type:       EventOrderStatusChanged,
		OutletID:   outletID,
		OccurredAt: time.Now().UTC(),
		Order:      &payload,
	}
}

func (e *OutletEvent) PartitionKey() string {
	return e.OutletID.String()
}

func (e *OutletEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeCheckoutReceipt  NotificationType = "CHECKOUT_RECEIPT"
	NotificationTypeBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is derived from a booking event by the consumer; it is never put on the wire
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	OutletID  uuid.UUID  `json:"outlet_id"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *EmailNotification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &EmailNotification{
			ID:           uuid.New(),
			Status:       NotificationStatusPending,
			CreatedAt:    time.Now(),
			MaxRetries:   3,
			TemplateData: make(map[string]interface{}),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	return nb
}

func (nb *NotificationBuilder) WithRecipient(email, name string) *NotificationBuilder {
	nb.notification.RecipientEmail = email
	nb.notification.RecipientName = name
	return nb
}

func (nb *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	nb.notification.Subject = subject
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]interface{}) *NotificationBuilder {
	nb.notification.TemplateData = data
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(outletID, bookingID uuid.UUID) *NotificationBuilder {
	nb.notification.OutletID = outletID
	nb.notification.BookingID = &bookingID
	return nb
}

func (nb *NotificationBuilder) Build() *EmailNotification {
	return nb.notification
}

func (en *EmailNotification) MarkSent() {
	now := time.Now()
	en.Status = NotificationStatusSent
	en.SentAt = &now
}

func (en *EmailNotification) MarkFailed(err error) {
	en.Status = NotificationStatusFailed
	errorStr := err.Error()
	en.LastError = &errorStr
}
