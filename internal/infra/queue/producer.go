package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TypeDemoDecision  = "DEMO_DECISION"
	TypeLeadConverted = "LEAD_CONVERTED"
)

// DemoDecisionPayload asks the worker to notify a lead that their demo request
// was approved or rejected.
type DemoDecisionPayload struct {
	LeadID   string `json:"lead_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
}

// LeadConvertedPayload feeds downstream systems (external CRM) after a
// conversion. It never carries credentials.
type LeadConvertedPayload struct {
	LeadID           string    `json:"lead_id"`
	OrganizationID   string    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Segment          string    `json:"segment"`
	ContactName      string    `json:"contact_name"`
	ContactEmail     string    `json:"contact_email"`
	Phone            string    `json:"phone,omitempty"`
	ConvertedAt      time.Time `json:"converted_at"`
}

// Envelope is the message body on the notification queue.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishDemoDecision(ctx context.Context, payload DemoDecisionPayload) error {
	return p.publish(ctx, TypeDemoDecision, payload)
}

func (p *RabbitMQProducer) PublishLeadConverted(ctx context.Context, payload LeadConvertedPayload) error {
	return p.publish(ctx, TypeLeadConverted, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	body, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         msgType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s to rabbitmq: %w", msgType, err)
	}
	return nil
}
