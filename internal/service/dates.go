package service

import "time"

// toDay normaliza un instante a su fecha calendario en UTC.
func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween cuenta días calendario completos entre dos fechas.
// Negativo si b es anterior a a.
func daysBetween(a, b time.Time) int {
	return int(toDay(b).Sub(toDay(a)).Hours() / 24)
}
