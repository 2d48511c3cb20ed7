package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestGeneratePasswordHasEveryClass(t *testing.T) {
	for i := 0; i < 50; i++ {
		p, err := usecase.GeneratePassword(16)
		require.NoError(t, err)

		assert.Len(t, p, 16)
		assert.True(t, strings.ContainsAny(p, "abcdefghijkmnopqrstuvwxyz"), p)
		assert.True(t, strings.ContainsAny(p, "ABCDEFGHJKLMNPQRSTUVWXYZ"), p)
		assert.True(t, strings.ContainsAny(p, "23456789"), p)
		assert.True(t, strings.ContainsAny(p, "!@#$%^&*-_=+?"), p)
	}
}

func TestGeneratePasswordEnforcesMinimumLength(t *testing.T) {
	p, err := usecase.GeneratePassword(4)

	require.NoError(t, err)
	assert.Len(t, p, usecase.MinPasswordLength)
}

func TestTransactionCompensatesInReverseOrder(t *testing.T) {
	var log []string
	txn := usecase.NewTransaction()
	txn.AddOperation("a",
		func(context.Context) error { log = append(log, "do a"); return nil },
		func(context.Context) error { log = append(log, "undo a"); return nil })
	txn.AddOperation("b",
		func(context.Context) error { log = append(log, "do b"); return nil },
		func(context.Context) error { log = append(log, "undo b"); return nil })
	txn.AddOperation("c",
		func(context.Context) error { return errors.New("c failed") },
		func(context.Context) error { log = append(log, "undo c"); return nil })

	err := txn.Execute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'c' failed")
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, log)
}
