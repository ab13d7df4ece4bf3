package board

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Anshpatel2434/Demaze-task/internal/model"
	"github.com/Anshpatel2434/Demaze-task/internal/theme"
)

// renderCard draws a single project card line.
func renderCard(p model.Project, width int, selected, grabbed, settling bool) string {
	var prefix string
	if p.IsCompleted {
		prefix = "✓"
	} else {
		prefix = "○"
	}

	label := "open"
	if p.IsCompleted {
		label = "done"
	}
	if settling {
		label = "saving"
	}
	badge := theme.StatusStyle(p.IsCompleted, settling).Render(label)

	line := fmt.Sprintf("%s %s %s", prefix, badge, p.Title)
	if selected {
		ts := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + relativeTime(p.UpdatedAt))
		line += ts
	}
	line = truncate(line, width)

	switch {
	case grabbed:
		return theme.GrabbedCardStyle.Render(line)
	case selected:
		return theme.SelectedCardStyle.Render(line)
	default:
		return theme.CardStyle.Render(line)
	}
}

// renderColumnHeader draws a column's user label with a card count.
func renderColumnHeader(u model.UserProfile, count int, hasMore bool) string {
	suffix := fmt.Sprintf(" (%d)", count)
	if hasMore {
		suffix = fmt.Sprintf(" (%d+)", count)
	}

	role := theme.RoleStyle(u.IsAdmin).Render(roleLabel(u))
	name := lipgloss.NewStyle().Bold(true).Render(u.DisplayName())
	return name + suffix + " " + role
}

func roleLabel(u model.UserProfile) string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
