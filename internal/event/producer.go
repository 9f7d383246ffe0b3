package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gigvault/escrowd/internal/domain"
	pkgkafka "github.com/gigvault/escrowd/pkg/kafka"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicServiceOffered  = "marketplace.service.offered"
	TopicServiceHired    = "marketplace.service.hired"
	TopicPaymentReleased = "marketplace.payment.released"
	TopicClientRefunded  = "marketplace.client.refunded"
	TopicServiceRated    = "marketplace.service.rated"
)

// Aggregate type constant.
const AggregateTypeService = "service"

// Source identifier for events originating from the marketplace service.
const SourceMarketplace = "escrowd"

// ServiceOfferedData is the payload for a service.offered event.
type ServiceOfferedData struct {
	ServiceID    int64     `json:"service_id"`
	FreelancerID string    `json:"freelancer_id"`
	Title        string    `json:"title"`
	Price        int64     `json:"price"`
	Deadline     time.Time `json:"deadline"`
}

// ServiceHiredData is the payload for a service.hired event.
type ServiceHiredData struct {
	ServiceID    int64  `json:"service_id"`
	FreelancerID string `json:"freelancer_id"`
	ClientID     string `json:"client_id"`
	Amount       int64  `json:"amount"`
}

// PaymentReleasedData is the payload for a payment.released event.
type PaymentReleasedData struct {
	ServiceID    int64  `json:"service_id"`
	FreelancerID string `json:"freelancer_id"`
	ClientID     string `json:"client_id"`
	Amount       int64  `json:"amount"`
}

// ClientRefundedData is the payload for a client.refunded event.
type ClientRefundedData struct {
	ServiceID    int64  `json:"service_id"`
	FreelancerID string `json:"freelancer_id"`
	ClientID     string `json:"client_id"`
	Amount       int64  `json:"amount"`
}

// ServiceRatedData is the payload for a service.rated event.
type ServiceRatedData struct {
	ServiceID    int64  `json:"service_id"`
	FreelancerID string `json:"freelancer_id"`
	ClientID     string `json:"client_id"`
	Rating       int    `json:"rating"`
}

// Producer publishes marketplace domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the marketplace service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic string, serviceID int64, data any) error {
	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(serviceID, 10), AggregateTypeService, SourceMarketplace, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published domain event",
		slog.String("topic", topic),
		slog.Int64("service_id", serviceID),
	)

	return nil
}

// PublishServiceOffered publishes a service.offered event.
func (p *Producer) PublishServiceOffered(ctx context.Context, svc *domain.Service) error {
	return p.publish(ctx, TopicServiceOffered, svc.ID, ServiceOfferedData{
		ServiceID:    svc.ID,
		FreelancerID: svc.FreelancerID,
		Title:        svc.Title,
		Price:        svc.Price,
		Deadline:     svc.Deadline,
	})
}

// PublishServiceHired publishes a service.hired event.
func (p *Producer) PublishServiceHired(ctx context.Context, svc *domain.Service, amount int64) error {
	return p.publish(ctx, TopicServiceHired, svc.ID, ServiceHiredData{
		ServiceID:    svc.ID,
		FreelancerID: svc.FreelancerID,
		ClientID:     clientID(svc),
		Amount:       amount,
	})
}

// PublishPaymentReleased publishes a payment.released event. The payout
// worker consumes it to move the funds to the freelancer.
func (p *Producer) PublishPaymentReleased(ctx context.Context, svc *domain.Service, amount int64) error {
	return p.publish(ctx, TopicPaymentReleased, svc.ID, PaymentReleasedData{
		ServiceID:    svc.ID,
		FreelancerID: svc.FreelancerID,
		ClientID:     clientID(svc),
		Amount:       amount,
	})
}

// PublishClientRefunded publishes a client.refunded event. The payout worker
// consumes it to return the funds to the client.
func (p *Producer) PublishClientRefunded(ctx context.Context, svc *domain.Service, amount int64) error {
	return p.publish(ctx, TopicClientRefunded, svc.ID, ClientRefundedData{
		ServiceID:    svc.ID,
		FreelancerID: svc.FreelancerID,
		ClientID:     clientID(svc),
		Amount:       amount,
	})
}

// PublishServiceRated publishes a service.rated event.
func (p *Producer) PublishServiceRated(ctx context.Context, svc *domain.Service) error {
	return p.publish(ctx, TopicServiceRated, svc.ID, ServiceRatedData{
		ServiceID:    svc.ID,
		FreelancerID: svc.FreelancerID,
		ClientID:     clientID(svc),
		Rating:       svc.Rating,
	})
}

func clientID(svc *domain.Service) string {
	if svc.ClientID == nil {
		return ""
	}
	return *svc.ClientID
}
