package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendDemoDecision(ctx context.Context, to, name string, approved bool) error {
	args := m.Called(ctx, to, name, approved)
	return args.Error(0)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) SyncConvertedLead(ctx context.Context, payload LeadConvertedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// fakeAcknowledger records what the worker did with a delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func envelope(t *testing.T, msgType string, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Type: msgType, Payload: raw}
}

func delivery(t *testing.T, ack *fakeAcknowledger, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body}
}

func TestHandleDemoDecisionSendsEmail(t *testing.T) {
	notifier := new(MockNotifier)
	w := NewWorker(nil, notifier, nil)
	notifier.On("SendDemoDecision", mock.Anything, "ana@acme.com", "Ana", false).Return(nil)

	err := w.Handle(context.Background(), envelope(t, TypeDemoDecision, DemoDecisionPayload{
		LeadID: "lead-1", Email: "ana@acme.com", Name: "Ana", Approved: false,
	}))

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestHandleLeadConvertedSyncsCRM(t *testing.T) {
	crm := new(MockCRM)
	w := NewWorker(nil, new(MockNotifier), crm)
	payload := LeadConvertedPayload{LeadID: "lead-1", OrganizationID: "org-1", OrganizationName: "Acme"}
	crm.On("SyncConvertedLead", mock.Anything, payload).Return(nil)

	require.NoError(t, w.Handle(context.Background(), envelope(t, TypeLeadConverted, payload)))
	crm.AssertExpectations(t)
}

func TestHandleLeadConvertedWithoutCRM(t *testing.T) {
	w := NewWorker(nil, new(MockNotifier), nil)

	err := w.Handle(context.Background(), envelope(t, TypeLeadConverted, LeadConvertedPayload{LeadID: "lead-1"}))

	assert.NoError(t, err)
}

func TestHandleUnknownTypeIsIgnored(t *testing.T) {
	notifier := new(MockNotifier)
	w := NewWorker(nil, notifier, nil)

	assert.NoError(t, w.Handle(context.Background(), Envelope{Type: "SOMETHING_ELSE"}))
	notifier.AssertNotCalled(t, "SendDemoDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	notifier := new(MockNotifier)
	w := NewWorker(nil, notifier, nil)
	notifier.On("SendDemoDecision", mock.Anything, "ana@acme.com", "Ana", true).Return(nil)

	body, err := json.Marshal(envelope(t, TypeDemoDecision, DemoDecisionPayload{Email: "ana@acme.com", Name: "Ana", Approved: true}))
	require.NoError(t, err)
	ack := &fakeAcknowledger{}

	w.handleDelivery(context.Background(), delivery(t, ack, body))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestHandleDeliveryDeadLettersMalformedJSON(t *testing.T) {
	w := NewWorker(nil, new(MockNotifier), nil)
	ack := &fakeAcknowledger{}

	w.handleDelivery(context.Background(), delivery(t, ack, []byte("{not json")))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.False(t, ack.acked)
}

func TestHandleDeliveryDeadLettersFailedSend(t *testing.T) {
	notifier := new(MockNotifier)
	w := NewWorker(nil, notifier, nil)
	notifier.On("SendDemoDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	body, err := json.Marshal(envelope(t, TypeDemoDecision, DemoDecisionPayload{Email: "ana@acme.com"}))
	require.NoError(t, err)
	ack := &fakeAcknowledger{}

	w.handleDelivery(context.Background(), delivery(t, ack, body))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestInlineProducerDispatchesToWorker(t *testing.T) {
	notifier := new(MockNotifier)
	producer := NewInlineProducer(NewWorker(nil, notifier, nil))
	notifier.On("SendDemoDecision", mock.Anything, "ana@acme.com", "Ana", true).Return(nil)

	err := producer.PublishDemoDecision(context.Background(), DemoDecisionPayload{Email: "ana@acme.com", Name: "Ana", Approved: true})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

type stubConsumer struct {
	ch chan amqp.Delivery
}

func (s stubConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return s.ch, nil
}

func TestStartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(stubConsumer{ch: make(chan amqp.Delivery)}, new(MockNotifier), nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()
	cancel()

	assert.NoError(t, <-done)
}

func TestStartReturnsWhenDeliveriesClose(t *testing.T) {
	ch := make(chan amqp.Delivery)
	close(ch)
	w := NewWorker(stubConsumer{ch: ch}, new(MockNotifier), nil)

	assert.Error(t, w.Start(context.Background(), QueueName))
}
