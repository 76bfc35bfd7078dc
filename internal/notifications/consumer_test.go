package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailService struct {
	mu       sync.Mutex
	failures int
	sent     []*EmailNotification
	calls    int
}

func (s *recordingEmailService) SendNotification(ctx context.Context, n *EmailNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("relay unavailable")
	}
	s.sent = append(s.sent, n)
	return nil
}

func bookingEvent(t EventType, email string) *OutletEvent {
	return NewBookingEvent(t, uuid.New(), BookingPayload{
		BookingID:      uuid.New(),
		RoomID:         uuid.New(),
		RoomNumber:     "204",
		GuestName:      "Rohan",
		Email:          email,
		CheckIn:        "2026-05-01",
		CheckOut:       "2026-05-03",
		Status:         "completed",
		TotalPrice:     4000,
		AdvancePayment: 1000,
		Balance:        3250,
	})
}

func encode(t *testing.T, e *OutletEvent) []byte {
	t.Helper()
	b, err := e.ToJSON()
	require.NoError(t, err)
	return b
}

func TestBuildEmail(t *testing.T) {
	tests := []struct {
		name     string
		event    *OutletEvent
		wantType NotificationType
	}{
		{"created", bookingEvent(EventBookingCreated, "rohan@example.com"), NotificationTypeBookingConfirmed},
		{"checked out", bookingEvent(EventBookingCheckedOut, "rohan@example.com"), NotificationTypeCheckoutReceipt},
		{"cancelled", bookingEvent(EventBookingCancelled, "rohan@example.com"), NotificationTypeBookingCancelled},
		{"checked in sends nothing", bookingEvent(EventBookingCheckedIn, "rohan@example.com"), ""},
		{"no email on file", bookingEvent(EventBookingCreated, ""), ""},
		{"order event", NewOrderEvent(uuid.New(), OrderPayload{OrderNumber: "ORD001"}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := BuildEmail(tt.event)
			if tt.wantType == "" {
				assert.Nil(t, n)
				return
			}
			require.NotNil(t, n)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, "rohan@example.com", n.RecipientEmail)
			assert.Equal(t, tt.event.Booking.BookingID, *n.BookingID)
			assert.Equal(t, tt.event.OutletID, n.OutletID)
		})
	}
}

func TestRenderCheckoutReceipt(t *testing.T) {
	n := BuildEmail(bookingEvent(EventBookingCheckedOut, "rohan@example.com"))

	html, text, err := renderNotification(n)

	require.NoError(t, err)
	assert.Contains(t, html, "room <strong>204</strong>")
	assert.Contains(t, text, "Balance: 3250.00")
	assert.Contains(t, text, "Hi Rohan,")
}

func TestRenderEscapesGuestInput(t *testing.T) {
	event := bookingEvent(EventBookingCreated, "x@example.com")
	event.Booking.GuestName = "<script>alert(1)</script>"

	html, text, err := renderNotification(BuildEmail(event))

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, text, "<script>", "plain text body is not html-escaped")
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("Outlet Desk", "noreply@example.com", "guest@example.com", "Hello", "<p>hi</p>", "hi", time.Unix(0, 42)))

	assert.True(t, strings.HasPrefix(msg, "From: Outlet Desk <noreply@example.com>\r\n"))
	assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary=outletdesk_42")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhi\r\n")
	assert.True(t, strings.HasSuffix(msg, "--outletdesk_42--\r\n"))
}

func TestHandlerRetriesThenSends(t *testing.T) {
	email := &recordingEmailService{failures: 2}
	h := NewEventHandler(email, 3, time.Millisecond)

	err := h.Handle(context.Background(), encode(t, bookingEvent(EventBookingCreated, "rohan@example.com")))

	require.NoError(t, err)
	assert.Equal(t, 3, email.calls)
	require.Len(t, email.sent, 1)
	assert.Equal(t, NotificationStatusSent, email.sent[0].Status)
}

func TestHandlerGivesUp(t *testing.T) {
	email := &recordingEmailService{failures: 10}
	h := NewEventHandler(email, 1, time.Millisecond)

	err := h.Handle(context.Background(), encode(t, bookingEvent(EventBookingCancelled, "rohan@example.com")))

	require.Error(t, err)
	assert.Equal(t, 2, email.calls)
}

func TestHandlerRejectsGarbage(t *testing.T) {
	h := NewEventHandler(&recordingEmailService{}, 0, 0)
	assert.ErrorIs(t, h.Handle(context.Background(), []byte("{not json")), ErrMalformedEvent)
}

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32                              { return nil }
func (s *fakeSession) MemberID() string                                        { return "test" }
func (s *fakeSession) GenerationID() int32                                     { return 1 }
func (s *fakeSession) MarkOffset(topic string, p int32, off int64, md string)  {}
func (s *fakeSession) Commit()                                                 {}
func (s *fakeSession) ResetOffset(topic string, p int32, off int64, md string) {}
func (s *fakeSession) Context() context.Context                                { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "outlet-events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 3 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaimMarksHandledAndMalformed(t *testing.T) {
	email := &recordingEmailService{}
	handler := &consumerGroupHandler{handler: NewEventHandler(email, 0, 0), log: NewEventHandler(email, 0, 0).log}

	created := bookingEvent(EventBookingCreated, "rohan@example.com")
	payload, err := json.Marshal(created)
	require.NoError(t, err)

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 0, Value: encode(t, bookingEvent(EventBookingCheckedIn, "a@example.com"))}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("garbage")}
	claim.messages <- &sarama.ConsumerMessage{Offset: 2, Value: payload}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, handler.ConsumeClaim(session, claim))

	assert.Equal(t, []int64{0, 1, 2}, session.marked)
	assert.Len(t, email.sent, 1)
}

func TestConsumeClaimLeavesFailedSendUnmarked(t *testing.T) {
	email := &recordingEmailService{failures: 1}
	handler := &consumerGroupHandler{handler: NewEventHandler(email, 0, 0), log: NewEventHandler(email, 0, 0).log}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 7, Value: encode(t, bookingEvent(EventBookingCreated, "rohan@example.com"))}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, handler.ConsumeClaim(session, claim))
	assert.Empty(t, session.marked)
}

func TestLaneForIsStablePerKey(t *testing.T) {
	outlet := []byte(uuid.NewString())
	assert.Equal(t, laneFor(outlet, 4), laneFor(outlet, 4))
	assert.Zero(t, laneFor(outlet, 1))
	assert.Zero(t, laneFor(nil, 0))
	for i := 0; i < 20; i++ {
		lane := laneFor([]byte(uuid.NewString()), 3)
		assert.True(t, lane >= 0 && lane < 3)
	}
}

func TestConsumeClaimFansOutAndKeepsOutletOrder(t *testing.T) {
	email := &recordingEmailService{}
	h := NewEventHandler(email, 0, 0)
	handler := &consumerGroupHandler{handler: h, workers: 3, log: h.log}

	outletA, outletB := []byte(uuid.NewString()), []byte(uuid.NewString())
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 6)}
	for i := 0; i < 6; i++ {
		key := outletA
		if i%2 == 1 {
			key = outletB
		}
		recipient := string(key[:8]) + "-" + string(rune('0'+i)) + "@example.com"
		claim.messages <- &sarama.ConsumerMessage{Offset: int64(i), Key: key, Value: encode(t, bookingEvent(EventBookingCreated, recipient))}
	}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, handler.ConsumeClaim(session, claim))

	assert.ElementsMatch(t, []int64{0, 1, 2, 3, 4, 5}, session.marked)
	require.Len(t, email.sent, 6)

	var forA []string
	for _, n := range email.sent {
		if strings.HasPrefix(n.RecipientEmail, string(outletA[:8])) {
			forA = append(forA, n.RecipientEmail)
		}
	}
	prefix := string(outletA[:8])
	assert.Equal(t, []string{prefix + "-0@example.com", prefix + "-2@example.com", prefix + "-4@example.com"}, forA)
}
