package clock

import "time"

// Clock abstrae la hora actual para que el orden del historial de precios sea
// determinista en tests. En producción se inyecta System.
type Clock interface {
	Now() time.Time
}

// System lee el reloj de pared.
type System struct{}

// Now hora actual del sistema.
func (System) Now() time.Time { return time.Now() }

// Fixed reloj fijo para tests; Advance lo mueve manualmente.
type Fixed struct {
	T time.Time
}

// NewFixed construye un reloj fijo en t.
func NewFixed(t time.Time) *Fixed { return &Fixed{T: t} }

// Now hora fijada.
func (f *Fixed) Now() time.Time { return f.T }

// Advance avanza el reloj fijo en d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
