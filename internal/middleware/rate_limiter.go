package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts of one key within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limitador counts requests per key (client IP or user id).
type limitador struct {
	nombre  string
	limit   int
	window  time.Duration
	clave   func(c *gin.Context) string
	mensaje string

	mu      sync.Mutex
	entries map[string]*rateEntry
}

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
)

func nuevoLimitador(nombre string, limit int, window time.Duration, clave func(*gin.Context) string, mensaje string) *limitador {
	l := &limitador{
		nombre:  nombre,
		limit:   limit,
		window:  window,
		clave:   clave,
		mensaje: mensaje,
		entries: make(map[string]*rateEntry),
	}
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	return l
}

func (l *limitador) handler(c *gin.Context) {
	key := l.clave(c)

	l.mu.Lock()
	entry, exists := l.entries[key]
	if !exists {
		entry = &rateEntry{}
		l.entries[key] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}

	entry.count++
	if entry.count > l.limit {
		c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
		return
	}
	c.Next()
}

// purgar drops expired entries and returns how many were removed.
func (l *limitador) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for key, entry := range l.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(l.entries, key)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}

// ── General API rate limiter ──────────────────────────────────────────────────

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador("api", limit, window, func(c *gin.Context) string { return c.ClientIP() },
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
	return l.handler
}

// ── Per-user limiter ──────────────────────────────────────────────────────────

// UserRateLimiter limits an authenticated user; it must run after JWTAuth.
// Used on the export endpoints, which build a workbook per request.
func UserRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := nuevoLimitador("usuario", limit, window, func(c *gin.Context) string { return GetUserID(c).String() },
		"Demasiadas exportaciones. Intente nuevamente mas tarde.")
	return l.handler
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so keys that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		limitadoresMu.Lock()
		for _, l := range limitadores {
			if purged := l.purgar(now); purged > 0 {
				log.Debug().
					Str("limiter", l.nombre).
					Int("entries_purged", purged).
					Msg("rate limiter map purged")
			}
		}
		limitadoresMu.Unlock()
	}
}
