package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"orienteering-backend/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	CodeAlphabet           = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength             = 5
	DefaultMaxCodeAttempts = 100
)

// CodeAllocator hands out join codes that no stored quest owns at the time of
// the check. It does not reserve the code; callers insert the quest and must
// handle store.ErrDuplicateCode from a concurrent writer.
type CodeAllocator struct {
	store       store.Store
	intn        func(n int) int
	maxAttempts int
}

type AllocatorOption func(*CodeAllocator)

// WithRandom replaces the randomness source. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) AllocatorOption {
	return func(a *CodeAllocator) { a.intn = intn }
}

func WithMaxAttempts(n int) AllocatorOption {
	return func(a *CodeAllocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

func NewCodeAllocator(s store.Store, opts ...AllocatorOption) *CodeAllocator {
	a := &CodeAllocator{
		store:       s,
		intn:        rand.Intn,
		maxAttempts: DefaultMaxCodeAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns requested (trimmed) if it is free, otherwise a random
// code. Each probe counts toward the attempt bound.
func (a *CodeAllocator) Allocate(ctx context.Context, requested string) (string, error) {
	candidate := strings.TrimSpace(requested)
	if candidate == "" {
		candidate = a.generate()
	}

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, err := a.store.GetQuestByCode(ctx, candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("allocate code: %w", err)
		}
		log.Ctx(ctx).Debug().Str("code", candidate).Int("attempt", attempt).Msg("quest code taken")
		candidate = a.generate()
	}
	return "", fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, a.maxAttempts)
}

func (a *CodeAllocator) generate() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(CodeAlphabet[a.intn(len(CodeAlphabet))])
	}
	return b.String()
}

// IsGeneratedCode reports whether code has the shape of a generated code.
func IsGeneratedCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(CodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
