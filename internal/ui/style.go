package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"todopet/internal/schedule"
	"todopet/internal/session"
	"todopet/internal/task"
)

var (
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	completeStyle = lipgloss.NewStyle().Foreground(colorGray).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	petBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

var petFaces = map[schedule.Mood]string{
	schedule.MoodNormal:  " /\\_/\\\n( ^.^ )\n > ^ <",
	schedule.MoodWarning: " /\\_/\\\n( o.o )\n > ~ <",
	schedule.MoodUrgent:  " /\\_/\\\n( O_O )!\n > ! <",
}

func moodColor(m schedule.Mood) lipgloss.AdaptiveColor {
	switch m {
	case schedule.MoodUrgent:
		return colorRed
	case schedule.MoodWarning:
		return colorOrange
	default:
		return colorGreen
	}
}

func urgencyStyle(u schedule.Urgency) lipgloss.Style {
	switch u {
	case schedule.UrgencyUrgent:
		return lipgloss.NewStyle().Foreground(colorRed)
	case schedule.UrgencyWarning:
		return lipgloss.NewStyle().Foreground(colorOrange)
	default:
		return lipgloss.NewStyle().Foreground(colorGreen)
	}
}

// moodMessage explains the mood in terms of the counts behind it.
func moodMessage(r session.Report, th schedule.Thresholds) string {
	th = th.Normalized()
	switch r.Mood {
	case schedule.MoodUrgent:
		return fmt.Sprintf("%s due within %s or overdue!", plural(r.Counts.Urgent), window(th.UrgentWithin))
	case schedule.MoodWarning:
		return fmt.Sprintf("%s due within %s", plural(r.Counts.Warning), window(th.WarningWithin))
	default:
		return "Nothing pressing."
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func window(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return fmt.Sprintf("%dm", int(d/time.Minute))
}

func renderPet(r session.Report, th schedule.Thresholds) string {
	color := moodColor(r.Mood)
	face := lipgloss.NewStyle().Foreground(color).Bold(true).Render(petFaces[r.Mood])
	body := lipgloss.JoinVertical(lipgloss.Left,
		face,
		"",
		fmt.Sprintf("Mood: %s", r.Mood),
		moodMessage(r, th),
	)
	return petBoxStyle.BorderForeground(color).Render(body)
}

// countdown describes the time left until deadline.
func countdown(deadline, now time.Time) string {
	left := deadline.Sub(now)
	switch {
	case left <= 0:
		return "overdue!"
	case left >= 24*time.Hour:
		return humanize.RelTime(deadline, now, "ago", "from now")
	default:
		h := int(left / time.Hour)
		m := int(left%time.Hour) / int(time.Minute)
		return fmt.Sprintf("%dh%02dm left", h, m)
	}
}

func renderTask(t task.Task, now time.Time, th schedule.Thresholds) string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	line := fmt.Sprintf("%s %s - %s (%s)", checkbox, t.Description, task.FormatTime(t.Deadline), countdown(t.Deadline, now))
	if t.Recurrence.Recurring() {
		line += fmt.Sprintf(" [%s]", t.Recurrence)
	}
	if t.Completed {
		return completeStyle.Render(line)
	}
	return urgencyStyle(schedule.UrgencyOf(t, now, th)).Render(line)
}

// RenderReport draws the pet and the task list without any interactive
// chrome.
func RenderReport(r session.Report, th schedule.Thresholds) string {
	var b strings.Builder
	b.WriteString(renderPet(r, th))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Todo: %d pending", r.Pending)))
	b.WriteString("\n")
	if len(r.Tasks) == 0 {
		b.WriteString("No tasks yet.\n")
		return b.String()
	}
	for _, t := range r.Tasks {
		b.WriteString("  ")
		b.WriteString(renderTask(t, r.At, th))
		b.WriteString("\n")
	}
	return b.String()
}
