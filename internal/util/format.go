package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCalories renders a calorie count with thousands separators, e.g. "1,250 kcal".
func FormatCalories(n int) string {
	return FormatNumber(n) + " kcal"
}

// FormatSignedCalories renders a delta with an explicit sign, e.g. "+320" or "-80".
func FormatSignedCalories(n int) string {
	if n > 0 {
		return "+" + FormatNumber(n)
	}
	return FormatNumber(n)
}

// FormatNumber inserts thousands separators into n.
func FormatNumber(n int) string {
	neg := n < 0
	s := strconv.Itoa(n)
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatDateHuman formats a timestamp relative to now.
// "Today 14:05", "Yesterday", "3d ago", "Jan 15", "Jan 15 '24"
func FormatDateHuman(t time.Time) string {
	return formatDateHumanAt(t, time.Now())
}

func formatDateHumanAt(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.In(now.Location())

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days == 0:
		return "Today " + t.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
