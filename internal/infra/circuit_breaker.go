package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay used by the export worker. After MaxFallos consecutive
// failures the breaker opens and every send fails fast until Espera elapses;
// then a single probe is let through (half-open). A successful probe closes it.

type EstadoCB int

const (
	CBCerrado     EstadoCB = iota // normal, calls flow
	CBAbierto                     // tripped, fast-fail
	CBSemiAbierto                 // probing, one call allowed
)

func (s EstadoCB) String() string {
	switch s {
	case CBCerrado:
		return "closed"
	case CBAbierto:
		return "open"
	case CBSemiAbierto:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitoAbierto is returned by Ejecutar while the breaker is open.
var ErrCircuitoAbierto = errors.New("circuit breaker abierto: servicio no disponible")

type ConfigCB struct {
	Nombre    string
	MaxFallos int
	Espera    time.Duration
}

func DefaultConfigCB(nombre string) ConfigCB {
	return ConfigCB{Nombre: nombre, MaxFallos: 5, Espera: 60 * time.Second}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       ConfigCB
	estado    EstadoCB
	fallos    int
	abiertoEn time.Time
	sondeando bool
	ahora     func() time.Time
}

func NewCircuitBreaker(cfg ConfigCB) *CircuitBreaker {
	if cfg.MaxFallos <= 0 {
		cfg.MaxFallos = 5
	}
	return &CircuitBreaker{cfg: cfg, ahora: time.Now}
}

func (cb *CircuitBreaker) Nombre() string { return cb.cfg.Nombre }

// Estado returns the current state, moving open → half-open once Espera has
// elapsed.
func (cb *CircuitBreaker) Estado() EstadoCB {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estadoLocked()
}

func (cb *CircuitBreaker) estadoLocked() EstadoCB {
	if cb.estado == CBAbierto && cb.ahora().Sub(cb.abiertoEn) >= cb.cfg.Espera {
		cb.estado = CBSemiAbierto
		cb.sondeando = false
	}
	return cb.estado
}

// Ejecutar runs fn unless the breaker is open (or a half-open probe is already
// in flight) and records the outcome.
func (cb *CircuitBreaker) Ejecutar(fn func() error) error {
	cb.mu.Lock()
	switch cb.estadoLocked() {
	case CBAbierto:
		cb.mu.Unlock()
		return ErrCircuitoAbierto
	case CBSemiAbierto:
		if cb.sondeando {
			cb.mu.Unlock()
			return ErrCircuitoAbierto
		}
		cb.sondeando = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.estado = CBCerrado
	cb.fallos = 0
	cb.sondeando = false
	return nil
}

func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	if cb.estado == CBSemiAbierto || cb.fallos >= cb.cfg.MaxFallos {
		cb.estado = CBAbierto
		cb.abiertoEn = cb.ahora()
		cb.sondeando = false
	}
}
