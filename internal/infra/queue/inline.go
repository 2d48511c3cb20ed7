package queue

import (
	"context"
	"encoding/json"
	"fmt"
)

// InlineProducer hands messages straight to a Worker. It replaces the broker
// when RabbitMQ is disabled, keeping the same processing path.
type InlineProducer struct {
	Worker *Worker
}

func NewInlineProducer(w *Worker) *InlineProducer {
	return &InlineProducer{Worker: w}
}

func (p *InlineProducer) PublishDemoDecision(ctx context.Context, payload DemoDecisionPayload) error {
	return p.dispatch(ctx, TypeDemoDecision, payload)
}

func (p *InlineProducer) PublishLeadConverted(ctx context.Context, payload LeadConvertedPayload) error {
	return p.dispatch(ctx, TypeLeadConverted, payload)
}

func (p *InlineProducer) dispatch(ctx context.Context, msgType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return p.Worker.Handle(ctx, Envelope{Type: msgType, Payload: raw})
}
