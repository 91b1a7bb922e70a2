package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryDB_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	got, err := RetryDB(context.Background(), RetryPolicy{Attempts: 3, Delay: time.Millisecond}, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection reset")
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.Equal(t, 3, calls)
}

func TestRetryDB_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("db down")
	err := RetryDBExec(context.Background(), RetryPolicy{Attempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 3, calls)
}

func TestGenerateOrderReference(t *testing.T) {
	ref := GenerateOrderReference()
	require.Len(t, ref, 35)
	require.Equal(t, "KD-", ref[:3])
	require.True(t, IsUUID(GenerateUUIDV7()))
	require.False(t, IsUUID("nope"))
}
