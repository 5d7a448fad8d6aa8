// Package util provides small shared helpers.
package util

import (
	"fmt"
	"time"
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// RelativeTimeLabel renders a Turkish human-readable label for how long ago
// t was, relative to now. Recent times collapse to "Az önce"; older ones
// fall back to an absolute Turkish date.
func RelativeTimeLabel(t, now time.Time) string {
	elapsed := now.Sub(t)

	switch {
	case elapsed < time.Minute:
		return "Az önce"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d dakika önce", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d saat önce", int(elapsed.Hours()))
	case elapsed < 48*time.Hour:
		return "Dün"
	default:
		return FormatTurkishDate(t)
	}
}

// FormatTurkishDate renders t as an absolute Turkish date, e.g. "2 Ocak 2026".
func FormatTurkishDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), turkishMonths[t.Month()-1], t.Year())
}
