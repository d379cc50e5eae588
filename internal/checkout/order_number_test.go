package checkout

import (
	"context"
	"regexp"
	"testing"
	"time"

	"atelier_back_end/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberFormat = regexp.MustCompile(`^ORD-\d{4}-\d{6}$`)

func neverExists(ctx context.Context, number string) (bool, error) {
	return false, nil
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	number, err := GenerateOrderNumber(context.Background(), now, func(n int) int { return 41 }, neverExists)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-000042", number)
	assert.Regexp(t, orderNumberFormat, number)
}

func TestGenerateOrderNumber_PadsSmallNumbers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	number, err := GenerateOrderNumber(context.Background(), now, func(n int) int { return 0 }, neverExists)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-000001", number)
}

func TestGenerateOrderNumber_RetriesOnCollision(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	calls := 0
	values := []int{7, 7, 99} // deux collisions puis un numéro libre
	randInt := func(n int) int {
		v := values[calls]
		calls++
		return v
	}

	seen := map[string]bool{"ORD-2026-000008": true}
	exists := func(ctx context.Context, number string) (bool, error) {
		return seen[number], nil
	}

	number, err := GenerateOrderNumber(context.Background(), now, randInt, exists)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-000100", number)
	assert.Equal(t, 3, calls)
}

func TestGenerateOrderNumber_GivesUpAfterMaxAttempts(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	attempts := 0
	exists := func(ctx context.Context, number string) (bool, error) {
		attempts++
		return true, nil
	}

	_, err := GenerateOrderNumber(context.Background(), now, func(n int) int { return 1 }, exists)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, maxNumberAttempts, attempts)
}

func TestGenerateOrderNumber_PropagatesLookupError(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	exists := func(ctx context.Context, number string) (bool, error) {
		return false, assert.AnError
	}

	_, err := GenerateOrderNumber(context.Background(), now, func(n int) int { return 1 }, exists)
	assert.ErrorIs(t, err, assert.AnError)
}
