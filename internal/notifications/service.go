package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"outletdesk/internal/shared/config"
	"outletdesk/pkg/logger"
)

// NotificationService runs the guest email side of the outlet event stream
type NotificationService interface {
	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ServiceConfig struct {
	Consumer           *ConsumerConfig
	NumConsumerWorkers int
	SMTP               *SMTPConfig
	MaxEmailsPerSecond float64
}

func NewServiceConfig(cfg *config.Config) *ServiceConfig {
	consumer := DefaultConsumerConfig()
	consumer.Brokers = cfg.Kafka.Brokers
	consumer.Topics = []string{cfg.Kafka.Topic}
	consumer.GroupID = cfg.Kafka.ConsumerGroup

	return &ServiceConfig{
		Consumer:           consumer,
		NumConsumerWorkers: 2,
		SMTP:               NewSMTPConfig(cfg.Email),
		MaxEmailsPerSecond: cfg.Email.MaxPerSecond,
	}
}

// NewEmailService picks SMTP when a host is configured and falls back to logging
func NewEmailService(cfg *ServiceConfig) (EmailService, error) {
	var email EmailService = NewLogEmailService()
	if cfg.SMTP != nil && cfg.SMTP.Host != "" {
		smtpService, err := NewSMTPEmailService(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		email = smtpService
	}
	return NewRateLimitedEmailService(email, cfg.MaxEmailsPerSecond), nil
}

type EmailNotificationService struct {
	config   *ServiceConfig
	consumer EventConsumer
	log      *logger.Logger

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEmailNotificationService(cfg *ServiceConfig) (NotificationService, error) {
	email, err := NewEmailService(cfg)
	if err != nil {
		return nil, err
	}

	handler := NewEventHandler(email, cfg.Consumer.MaxRetries, cfg.Consumer.SendBackoff)
	consumer, err := NewKafkaEventConsumer(cfg.Consumer, handler)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}
	return newEmailNotificationService(cfg, consumer), nil
}

func newEmailNotificationService(cfg *ServiceConfig, consumer EventConsumer) *EmailNotificationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &EmailNotificationService{
		config:   cfg,
		consumer: consumer,
		log:      logger.GetDefault(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *EmailNotificationService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("notification service is already running")
	}
	if err := s.consumer.StartConsumers(s.ctx, s.config.NumConsumerWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	s.isRunning = true
	s.log.InfoContext(ctx, "notification service started")
	return nil
}

func (s *EmailNotificationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return errors.New("notification service is not running")
	}

	s.cancel()
	if err := s.consumer.Stop(); err != nil {
		s.log.Error("error stopping consumer", "error", err.Error())
	}

	s.isRunning = false
	s.log.Info("notification service stopped")
	return nil
}

func (s *EmailNotificationService) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	isRunning := s.isRunning
	s.mu.RUnlock()

	if !isRunning {
		return errors.New("notification service is not running")
	}
	if err := s.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}
	return nil
}
