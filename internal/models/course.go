package models

import "time"

// Weight is a single component of the grade formula, e.g. ("Экзамен", 0.4).
// Order is preserved: the formula renders in the sheet's row order.
type Weight struct {
	Label string
	Value float64
}

// Assignment is a graded task with a due date and an optional link.
type Assignment struct {
	Title string
	Due   time.Time
	Link  string
}

// DueOn reports whether the assignment falls due on the given calendar date.
func (a Assignment) DueOn(date time.Time) bool {
	y1, m1, d1 := a.Due.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// InfoRow is one entry on the course info sheet: a resource label plus its
// value, which is either a URL or a Telegram username depending on the label.
type InfoRow struct {
	Label string
	Value string
}

// CourseSummary describes a stored course workbook for one chat.
type CourseSummary struct {
	ChatID     int64
	FilePath   string
	UploadedAt time.Time
}
