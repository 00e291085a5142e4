package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const fechaLayout = "2006-01-02"

// Fecha fecha civil sin hora ni zona (AAAA-MM-DD). El valor cero significa "sin fecha".
type Fecha struct {
	t time.Time
}

// NewFecha construye una fecha civil.
func NewFecha(year int, month time.Month, day int) Fecha {
	return Fecha{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FechaDe toma el día de t en su propia zona horaria.
func FechaDe(t time.Time) Fecha {
	if t.IsZero() {
		return Fecha{}
	}
	return NewFecha(t.Year(), t.Month(), t.Day())
}

// ParseFecha acepta "2006-01-02" o un instante RFC 3339 (se descarta la hora).
// La cadena vacía devuelve la fecha cero.
func ParseFecha(s string) (Fecha, error) {
	if s == "" {
		return Fecha{}, nil
	}
	if t, err := time.Parse(fechaLayout, s); err == nil {
		return Fecha{t: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Fecha{}, fmt.Errorf("fecha %q: formato esperado AAAA-MM-DD", s)
	}
	return FechaDe(t), nil
}

// IsZero indica ausencia de fecha.
func (f Fecha) IsZero() bool { return f.t.IsZero() }

// Time devuelve la medianoche UTC del día.
func (f Fecha) Time() time.Time { return f.t }

// String formato AAAA-MM-DD, o "" si no hay fecha.
func (f Fecha) String() string {
	if f.IsZero() {
		return ""
	}
	return f.t.Format(fechaLayout)
}

// Format formatea con un layout de time.
func (f Fecha) Format(layout string) string {
	if f.IsZero() {
		return ""
	}
	return f.t.Format(layout)
}

// Before compara dos fechas civiles.
func (f Fecha) Before(o Fecha) bool { return f.t.Before(o.t) }

// MarshalJSON emite "AAAA-MM-DD" o null.
func (f Fecha) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON acepta null, "" o cualquier forma admitida por ParseFecha.
func (f *Fecha) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = Fecha{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha: se esperaba texto: %w", err)
	}
	v, err := ParseFecha(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
