package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// DemoNotifier sends the approved/rejected notice to the lead.
type DemoNotifier interface {
	SendDemoDecision(ctx context.Context, to, name string, approved bool) error
}

// CRMSync pushes a converted lead to the external CRM.
type CRMSync interface {
	SyncConvertedLead(ctx context.Context, payload LeadConvertedPayload) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier DemoNotifier
	CRM      CRMSync // nil when no CRM is configured
}

func NewWorker(ch Consumer, notifier DemoNotifier, crm CRMSync) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		CRM:      crm,
	}
}

// Start consumes until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register rabbitmq consumer: %w", err)
	}

	log.Info().Str("queue", queueName).Msg("notification worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acks on success. Malformed or failing messages are rejected
// without requeue so they land in the dead-letter queue.
func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var env Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		log.Error().Err(err).Msg("malformed notification message")
		_ = d.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, env); err != nil {
		log.Error().Err(err).Str("type", env.Type).Msg("notification processing failed")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *Worker) Handle(ctx context.Context, env Envelope) error {
	switch env.Type {
	case TypeDemoDecision:
		var p DemoDecisionPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		if err := w.Notifier.SendDemoDecision(ctx, p.Email, p.Name, p.Approved); err != nil {
			metrics.RecordNotificationFailure("email")
			return fmt.Errorf("send demo decision: %w", err)
		}
		log.Info().Str("lead_id", p.LeadID).Bool("approved", p.Approved).Msg("demo decision sent")
		return nil

	case TypeLeadConverted:
		var p LeadConvertedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		if w.CRM == nil {
			log.Debug().Str("lead_id", p.LeadID).Msg("crm sync not configured, skipping")
			return nil
		}
		if err := w.CRM.SyncConvertedLead(ctx, p); err != nil {
			metrics.RecordNotificationFailure("crm")
			return fmt.Errorf("sync converted lead: %w", err)
		}
		log.Info().Str("lead_id", p.LeadID).Str("organization_id", p.OrganizationID).Msg("converted lead synced to crm")
		return nil
	}

	// Unknown types are acked so they do not pile up in the DLQ.
	log.Warn().Str("type", env.Type).Msg("unknown notification type, ignoring")
	return nil
}
