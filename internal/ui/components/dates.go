// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"
)

// RelativeDate formats t for the conversation list, counting whole
// 24-hour periods between t and now.
func RelativeDate(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))

	switch {
	case days == 0:
		return "Aujourd'hui"
	case days == 1:
		return "Hier"
	case days < 7:
		return fmt.Sprintf("Il y a %d jours", days)
	default:
		return t.Local().Format("02/01/2006")
	}
}

// FormatTime formats a message timestamp as HH:MM in local time.
func FormatTime(t time.Time) string {
	return t.Local().Format("15:04")
}
