package model

import (
	"fmt"
	"strings"
	"time"
)

const fechaLayout = "2006-01-02"

// Fecha is a civil date (no time-of-day component), as stored by the table
// store in "YYYY-MM-DD" date columns. Cost validity intervals compare whole
// calendar days, never instants.
type Fecha struct {
	time.Time
}

// NuevaFecha builds a Fecha from year, month, day.
func NuevaFecha(anio int, mes time.Month, dia int) Fecha {
	return Fecha{time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)}
}

// ParseFecha parses a "YYYY-MM-DD" string.
func ParseFecha(s string) (Fecha, error) {
	t, err := time.Parse(fechaLayout, strings.TrimSpace(s))
	if err != nil {
		return Fecha{}, fmt.Errorf("fecha invalida %q: %w", s, err)
	}
	return Fecha{t}, nil
}

// Hoy returns today's civil date.
func Hoy() Fecha {
	y, m, d := time.Now().Date()
	return NuevaFecha(y, m, d)
}

// AddDias returns the date shifted by n calendar days (n may be negative).
func (f Fecha) AddDias(n int) Fecha {
	return Fecha{f.Time.AddDate(0, 0, n)}
}

func (f Fecha) String() string { return f.Time.Format(fechaLayout) }

func (f Fecha) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + f.String() + `"`), nil
}

func (f *Fecha) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*f = Fecha{}
		return nil
	}
	// Some table-store exports append a midnight timestamp; keep the date part.
	if len(s) > len(fechaLayout) {
		s = s[:len(fechaLayout)]
	}
	parsed, err := ParseFecha(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
