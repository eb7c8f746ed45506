package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAllKeepsOrderAndNeverShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	tasks := []func(context.Context) (int, error){
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			return 3, nil
		},
	}

	out := SettleAll(context.Background(), tasks)
	require.Len(t, out, 3)

	assert.Equal(t, 1, out[0].Value)
	assert.NoError(t, out[0].Err)
	assert.ErrorIs(t, out[1].Err, boom)
	assert.Equal(t, 3, out[2].Value)
	assert.NoError(t, out[2].Err)
}

func TestSettleAllEmpty(t *testing.T) {
	out := SettleAll[int](context.Background(), nil)
	assert.Empty(t, out)
}

func TestRunConcurrentErrorSlots(t *testing.T) {
	first := errors.New("first")
	var touched bool

	errs := RunConcurrent(context.Background(),
		func(context.Context) error { return first },
		func(context.Context) error { touched = true; return nil },
	)

	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], first)
	assert.NoError(t, errs[1])
	assert.True(t, touched)
}

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := NewBackoff(time.Millisecond, 3).Do(func(i int) error {
		attempts++
		if i < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBackoffExhaustsBudget(t *testing.T) {
	stubborn := errors.New("still down")
	attempts := 0
	err := NewBackoff(time.Millisecond, 2).Do(func(int) error {
		attempts++
		return stubborn
	})
	assert.ErrorIs(t, err, stubborn)
	assert.Equal(t, 3, attempts)
}
