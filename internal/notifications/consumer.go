package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"outletdesk/pkg/logger"
	"outletdesk/pkg/metrics"

	"github.com/IBM/sarama"
)

var ErrMalformedEvent = errors.New("malformed outlet event")

type EventConsumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	Heartbeat         time.Duration
	RetryBackoff      time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	MaxRetries        int
	SendBackoff       time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "outletdesk-notifiers",
		Topics:            []string{"outlet-events"},
		SessionTimeout:    30 * time.Second,
		Heartbeat:         3 * time.Second,
		RetryBackoff:      100 * time.Millisecond,
		MaxProcessingTime: 5 * time.Minute,
		OffsetOldest:      false,
		MaxRetries:        3,
		SendBackoff:       time.Second,
	}
}

func (c *ConsumerConfig) NewSaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = c.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = c.Heartbeat
	saramaConfig.Consumer.Retry.Backoff = c.RetryBackoff
	saramaConfig.Consumer.MaxProcessingTime = c.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if c.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return saramaConfig
}

// BuildEmail maps a booking event to the guest email it triggers. It returns nil when the event
// sends nothing: no guest email on file, or an event type guests are not told about.
func BuildEmail(event *OutletEvent) *EmailNotification {
	if event == nil || event.Booking == nil || event.Booking.Email == "" {
		return nil
	}
	b := event.Booking

	var (
		notificationType NotificationType
		subject          string
	)
	switch event.Type {
	case EventBookingCreated:
		notificationType = NotificationTypeBookingConfirmed
		subject = fmt.Sprintf("Your booking from %s is confirmed", b.CheckIn)
	case EventBookingCheckedOut:
		notificationType = NotificationTypeCheckoutReceipt
		subject = "Your checkout receipt"
	case EventBookingCancelled:
		notificationType = NotificationTypeBookingCancelled
		subject = fmt.Sprintf("Your booking from %s was cancelled", b.CheckIn)
	default:
		return nil
	}

	return NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(b.Email, b.GuestName).
		WithSubject(subject).
		WithTemplateData(map[string]interface{}{
			"guest_name":      b.GuestName,
			"room_number":     b.RoomNumber,
			"check_in":        b.CheckIn,
			"check_out":       b.CheckOut,
			"total_price":     b.TotalPrice,
			"advance_payment": b.AdvancePayment,
			"balance":         b.Balance,
			"booking_id":      b.BookingID.String(),
		}).
		WithBookingContext(event.OutletID, b.BookingID).
		Build()
}

// EventHandler turns one consumed message into at most one email
type EventHandler struct {
	email      EmailService
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func NewEventHandler(email EmailService, maxRetries int, backoff time.Duration) *EventHandler {
	return &EventHandler{
		email:      email,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        logger.GetDefault(),
	}
}

func (h *EventHandler) Handle(ctx context.Context, value []byte) error {
	var event OutletEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	notification := BuildEmail(&event)
	if notification == nil {
		return nil
	}
	notification.Status = NotificationStatusSending

	if err := h.sendWithRetry(ctx, notification); err != nil {
		notification.MarkFailed(err)
		metrics.IncEmailSent(string(notification.Type), false)
		return err
	}

	notification.MarkSent()
	metrics.IncEmailSent(string(notification.Type), true)
	return nil
}

func (h *EventHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	var err error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if err = h.email.SendNotification(ctx, notification); err == nil {
			return nil
		}
		notification.RetryCount = attempt
		if attempt == h.maxRetries {
			break
		}

		// exponential backoff
		delay := h.backoff * time.Duration(1<<attempt)
		h.log.WarnContext(ctx, "email send failed, retrying",
			"notification_id", notification.ID.String(),
			"attempt", attempt+1,
			"delay", delay.String(),
			"error", err.Error(),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", h.maxRetries+1, err)
}

type KafkaEventConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	handler       *EventHandler
	log           *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaEventConsumer(config *ConsumerConfig, handler *EventHandler) (*KafkaEventConsumer, error) {
	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, config.NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return newKafkaEventConsumer(consumerGroup, config, handler), nil
}

func newKafkaEventConsumer(group sarama.ConsumerGroup, config *ConsumerConfig, handler *EventHandler) *KafkaEventConsumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventConsumer{
		consumerGroup: group,
		config:        config,
		handler:       handler,
		log:           logger.GetDefault(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// StartConsumers joins the group with one Consume loop; each claimed partition is
// worked by numWorkers goroutines inside ConsumeClaim.
func (c *KafkaEventConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	c.log.Info("starting outlet event consumer", "workers", numWorkers, "topics", c.config.Topics)

	go c.handleErrors()

	handler := &consumerGroupHandler{handler: c.handler, workers: numWorkers, log: c.log}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(ctx, handler)
	}()
	return nil
}

func (c *KafkaEventConsumer) consume(ctx context.Context, handler sarama.ConsumerGroupHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		default:
		}
		// Consume returns on every rebalance
		if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Error("consume failed", "error", err.Error())
			time.Sleep(time.Second)
		}
	}
}

func (c *KafkaEventConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.log.Error("consumer group error", "error", err.Error())
	}
}

func (c *KafkaEventConsumer) Stop() error {
	c.cancel()
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.wg.Wait()
	c.log.Info("outlet event consumers stopped")
	return nil
}

func (c *KafkaEventConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-c.ctx.Done():
		return errors.New("consumer is stopped")
	default:
		return nil
	}
}

type consumerGroupHandler struct {
	handler *EventHandler
	workers int
	log     *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim spreads the partition over the workers by message key, so one outlet's
// events are handled in order.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	workers := h.workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	lanes := make([]chan *sarama.ConsumerMessage, workers)
	for i := range lanes {
		lanes[i] = make(chan *sarama.ConsumerMessage)
		wg.Add(1)
		go func(worker int, in <-chan *sarama.ConsumerMessage) {
			defer wg.Done()
			for message := range in {
				h.handle(session, worker, message)
			}
		}(i, lanes[i])
	}
	defer func() {
		for _, lane := range lanes {
			close(lane)
		}
		wg.Wait()
	}()

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			select {
			case lanes[laneFor(message.Key, workers)] <- message:
			case <-session.Context().Done():
				return nil
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle marks a message once it is handled. Malformed messages are marked too; they can never succeed.
func (h *consumerGroupHandler) handle(session sarama.ConsumerGroupSession, worker int, message *sarama.ConsumerMessage) {
	err := h.handler.Handle(session.Context(), message.Value)
	switch {
	case err == nil:
		session.MarkMessage(message, "")
	case errors.Is(err, ErrMalformedEvent):
		h.log.Warn("dropping malformed event", "worker", worker, "partition", message.Partition, "offset", message.Offset, "error", err.Error())
		session.MarkMessage(message, "")
	default:
		h.log.Error("failed to handle event", "worker", worker, "partition", message.Partition, "offset", message.Offset, "error", err.Error())
	}
}

func laneFor(key []byte, workers int) int {
	if workers <= 1 {
		return 0
	}
	f := fnv.New32a()
	_, _ = f.Write(key)
	return int(f.Sum32() % uint32(workers))
}
