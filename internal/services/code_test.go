package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"orienteering-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{5}$`)

func TestAllocateGeneratesCodeOnEmptyStore(t *testing.T) {
	s, _ := newTestStore(t)
	allocator := services.NewCodeAllocator(s)

	for i := 0; i < 200; i++ {
		code, err := allocator.Allocate(context.Background(), "")
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		assert.True(t, services.IsGeneratedCode(code))
	}
}

func TestAllocateKeepsFreeUserCode(t *testing.T) {
	s, _ := newTestStore(t)
	allocator := services.NewCodeAllocator(s)

	code, err := allocator.Allocate(context.Background(), "  my-lobby \t")
	require.NoError(t, err)
	assert.Equal(t, "my-lobby", code)

	code, err = allocator.Allocate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, code)
}

func TestAllocateNeverReturnsTakenCode(t *testing.T) {
	s, _ := newTestStore(t)
	seedQuest(t, s, "Existing", "ABC12", "q1", "q2", "q3")
	allocator := services.NewCodeAllocator(s)

	for i := 0; i < 50; i++ {
		code, err := allocator.Allocate(context.Background(), "ABC12")
		require.NoError(t, err)
		assert.NotEqual(t, "ABC12", code)
		assert.Len(t, code, 5)
		assert.Regexp(t, codePattern, code)
	}
}

func TestAllocateRetriesGeneratedCollisions(t *testing.T) {
	s, _ := newTestStore(t)
	seedQuest(t, s, "Taken", "AAAAA")
	allocator := services.NewCodeAllocator(s,
		services.WithRandom(sequence(0, 0, 0, 0, 0, 1, 1, 1, 1, 1)),
	)

	code, err := allocator.Allocate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "BBBBB", code)
}

func TestAllocateExhausted(t *testing.T) {
	s, _ := newTestStore(t)
	seedQuest(t, s, "Taken", "AAAAA")
	allocator := services.NewCodeAllocator(s,
		services.WithRandom(sequence(0)),
		services.WithMaxAttempts(3),
	)

	code, err := allocator.Allocate(context.Background(), "AAAAA")
	assert.ErrorIs(t, err, services.ErrAllocationExhausted)
	assert.Empty(t, code)
}

func TestAllocatePropagatesStoreErrors(t *testing.T) {
	s, _ := newTestStore(t)
	boom := errors.New("connection reset")
	allocator := services.NewCodeAllocator(failingLookupStore{Store: s, err: boom})

	_, err := allocator.Allocate(context.Background(), "")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, services.ErrAllocationExhausted)
}

func TestAllocateHonoursCancellation(t *testing.T) {
	s, _ := newTestStore(t)
	allocator := services.NewCodeAllocator(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := allocator.Allocate(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsGeneratedCode(t *testing.T) {
	assert.True(t, services.IsGeneratedCode("Z9A0B"))
	assert.False(t, services.IsGeneratedCode("z9a0b"))
	assert.False(t, services.IsGeneratedCode("ABCD"))
	assert.False(t, services.IsGeneratedCode("ABCDEF"))
	assert.False(t, services.IsGeneratedCode("AB-12"))
}
