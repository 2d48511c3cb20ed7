package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Transaction runs a sequence of writes across documents that the store
// cannot commit atomically. When an operation fails, the compensations of the
// operations that already succeeded run in reverse order.
type Transaction struct {
	steps []step
}

type step struct {
	name       string
	operation  func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation registers a step. compensate may be nil for steps with nothing to undo.
func (t *Transaction) AddOperation(name string, operation, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, operation: operation, compensate: compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.operation(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil {
			log.Error().Err(err).Str("step", s.name).Msg("compensation failed, manual cleanup required")
		}
	}
}
