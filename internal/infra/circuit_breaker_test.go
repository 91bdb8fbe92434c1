package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb := NewCircuitBreaker(ConfigCB{Nombre: "smtp", MaxFallos: 2, Espera: time.Minute})
	boom := errors.New("smtp caído")

	assert.ErrorIs(t, cb.Ejecutar(func() error { return boom }), boom)
	assert.Equal(t, CBCerrado, cb.Estado())
	assert.ErrorIs(t, cb.Ejecutar(func() error { return boom }), boom)
	assert.Equal(t, CBAbierto, cb.Estado())

	llamado := false
	err := cb.Ejecutar(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitoAbierto)
	assert.False(t, llamado)
}

func TestCircuitBreaker_SondaCierraElCircuito(t *testing.T) {
	ahora := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(ConfigCB{Nombre: "smtp", MaxFallos: 1, Espera: 30 * time.Second})
	cb.ahora = func() time.Time { return ahora }

	_ = cb.Ejecutar(func() error { return errors.New("x") })
	require.Equal(t, CBAbierto, cb.Estado())

	ahora = ahora.Add(31 * time.Second)
	assert.Equal(t, CBSemiAbierto, cb.Estado())
	assert.Equal(t, "half-open", cb.Estado().String())

	require.NoError(t, cb.Ejecutar(func() error { return nil }))
	assert.Equal(t, CBCerrado, cb.Estado())
}

func TestCircuitBreaker_SondaFallidaReabre(t *testing.T) {
	ahora := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(ConfigCB{Nombre: "smtp", MaxFallos: 3, Espera: time.Second})
	cb.ahora = func() time.Time { return ahora }

	for i := 0; i < 3; i++ {
		_ = cb.Ejecutar(func() error { return errors.New("x") })
	}
	ahora = ahora.Add(2 * time.Second)
	require.Equal(t, CBSemiAbierto, cb.Estado())

	_ = cb.Ejecutar(func() error { return errors.New("todavía caído") })
	assert.Equal(t, CBAbierto, cb.Estado())
}
