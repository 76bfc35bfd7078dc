package notifications

import (
	"context"
	"testing"

	"outletdesk/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConsumer struct {
	started int
	stopped bool
}

func (c *stubConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	c.started = numWorkers
	return nil
}

func (c *stubConsumer) Stop() error {
	c.stopped = true
	return nil
}

func (c *stubConsumer) HealthCheck(ctx context.Context) error { return nil }

func TestNotificationServiceLifecycle(t *testing.T) {
	consumer := &stubConsumer{}
	svc := newEmailNotificationService(&ServiceConfig{NumConsumerWorkers: 3}, consumer)
	ctx := context.Background()

	assert.Error(t, svc.HealthCheck(ctx))
	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, 3, consumer.started)
	assert.Error(t, svc.Start(ctx), "double start")
	assert.NoError(t, svc.HealthCheck(ctx))

	require.NoError(t, svc.Stop())
	assert.True(t, consumer.stopped)
	assert.Error(t, svc.Stop())
}

func TestNewEmailServiceFallsBackToLog(t *testing.T) {
	cfg := NewServiceConfig(&config.Config{
		Kafka: config.KafkaConfig{Brokers: []string{"k:9092"}, Topic: "events", ConsumerGroup: "g"},
		Email: config.EmailConfig{MaxPerSecond: 0},
	})
	assert.Equal(t, []string{"events"}, cfg.Consumer.Topics)
	assert.Equal(t, "g", cfg.Consumer.GroupID)

	email, err := NewEmailService(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogEmailService{}, email)

	cfg.MaxEmailsPerSecond = 2
	email, err = NewEmailService(cfg)
	require.NoError(t, err)
	assert.IsType(t, &RateLimitedEmailService{}, email)
	assert.NoError(t, email.SendNotification(context.Background(), BuildEmail(bookingEvent(EventBookingCreated, "a@example.com"))))
}

func TestNewEmailServiceRejectsPartialSMTP(t *testing.T) {
	cfg := &ServiceConfig{SMTP: &SMTPConfig{Host: "smtp.example.com", Port: 587}}
	_, err := NewEmailService(cfg)
	assert.Error(t, err)
}
