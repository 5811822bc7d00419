// Package format renders the bot's user-facing messages. Everything here is
// pure: handlers pass in data and the current time and send the result as
// HTML with web previews disabled.
package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

const (
	// DeadlineWindow is how far ahead the summary looks for upcoming deadlines.
	DeadlineWindow = 14 * 24 * time.Hour

	// NearestLimit caps how many deadlines the summary lists.
	NearestLimit = 5

	dateLayout = "02.01.2006"
)

const (
	NoWeightsText       = `Формула пока не задана. Загрузите Excel с листом "Оценивание".`
	NoAssignmentsText   = `Нет данных о дедлайнах. Загрузите Excel с листом "Задания".`
	NoDeadlinesSoonText = "В ближайшие 2 недели дедлайнов нет."
	NoInfoText          = `Нет данных на листе "Инфо".`

	infoGreeting = "Привет! Ниже приведены ссылки на основные ресурсы курса 👇"
)

// usernameLabels are info rows rendered as Telegram usernames rather than links.
var usernameLabels = map[string]bool{
	"Преподаватель": true,
	"Ассистент":     true,
	"Канал":         true,
}

var (
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	leadingAt     = regexp.MustCompile(`^@+`)
)

// Formula renders the grade formula, e.g. "Итог = КР×0.3 + Экзамен×0.7".
func Formula(weights []models.Weight) string {
	if len(weights) == 0 {
		return NoWeightsText
	}
	parts := make([]string, 0, len(weights))
	for _, w := range weights {
		parts = append(parts, fmt.Sprintf("%s×%g", w.Label, w.Value))
	}
	return "Итог = " + strings.Join(parts, " + ")
}

// Nearest renders the deadlines falling within the two-week window after now,
// at most limit entries.
func Nearest(assignments []models.Assignment, now time.Time, limit int) string {
	if len(assignments) == 0 {
		return NoAssignmentsText
	}

	horizon := now.Add(DeadlineWindow)
	var lines []string
	for _, a := range assignments {
		if a.Due.Before(now) || a.Due.After(horizon) {
			continue
		}
		if len(lines) == limit {
			break
		}
		lines = append(lines, Item(a))
	}

	if len(lines) == 0 {
		return NoDeadlinesSoonText
	}
	return strings.Join(lines, "\n")
}

// Summary renders the /help response: grade formula plus upcoming deadlines.
func Summary(weights []models.Weight, assignments []models.Assignment, now time.Time) string {
	return fmt.Sprintf("<b>Формула оценки</b>\n%s\n\n<b>Ближайшие дедлайны</b>\n%s",
		Formula(weights), Nearest(assignments, now, NearestLimit))
}

// Item renders one assignment bullet with an HTML-escaped title and link.
func Item(a models.Assignment) string {
	date := a.Due.Format(dateLayout)
	title := html.EscapeString(a.Title)
	if a.Link != "" {
		return fmt.Sprintf("• <a href=\"%s\">%s</a> — %s", html.EscapeString(a.Link), title, date)
	}
	return fmt.Sprintf("• %s — %s", title, date)
}

// Info renders the /info response: the course resource list. Staff and
// channel rows become usernames, everything else becomes a link.
func Info(rows []models.InfoRow) string {
	if len(rows) == 0 {
		return NoInfoText
	}

	lines := []string{infoGreeting}
	for _, row := range rows {
		label := html.EscapeString(row.Label)
		if usernameLabels[row.Label] {
			display := ""
			if uname := strings.TrimSpace(leadingAt.ReplaceAllString(row.Value, "")); uname != "" {
				display = "@" + uname
			}
			lines = append(lines, fmt.Sprintf("• <b>%s</b>: %s", label, html.EscapeString(display)))
		} else {
			link := html.EscapeString(NormalizeURL(row.Value))
			lines = append(lines, fmt.Sprintf("• <a href=\"%s\">%s</a>", link, label))
		}
	}
	return strings.Join(lines, "\n\n")
}

// Digest renders a reminder message for assignments due on one date, with
// the given horizon label ("за неделю" or "за день"). Returns "" when there
// is nothing to remind about.
func Digest(label string, items []models.Assignment) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("🔔 Напоминание <b>%s</b> до дедлайна:", label))
	for _, a := range items {
		lines = append(lines, Item(a))
	}
	return strings.Join(lines, "\n")
}

// NormalizeURL prefixes a scheme when the value looks like a bare host, so
// Telegram clients treat it as a link.
func NormalizeURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || schemePattern.MatchString(link) {
		return link
	}
	return "https://" + link
}
