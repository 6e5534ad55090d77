package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFalla = errors.New("falla simulada")

func TestCircuitBreakerAbreTrasUmbralDeFallas(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errFalla })
		require.ErrorIs(t, err, errFalla)
	}
	assert.Equal(t, CBOpen, cb.State())

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerExitoReiniciaContador(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	_ = cb.Execute(func() error { return errFalla })
	_ = cb.Execute(func() error { return errFalla })
	require.NoError(t, cb.Execute(func() error { return nil }))

	_ = cb.Execute(func() error { return errFalla })
	_ = cb.Execute(func() error { return errFalla })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerRecuperacionPorHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	_ = cb.Execute(func() error { return errFalla })
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerProbeFallidoReabre(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, OpenTimeout: 10 * time.Millisecond})

	_ = cb.Execute(func() error { return errFalla })
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errFalla })
	assert.Equal(t, CBOpen, cb.State())
}
