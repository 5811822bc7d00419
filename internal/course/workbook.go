package course

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iamchris0/hsedeadlinerbot/internal/models"
)

// Canonical sheet names as they appear in the course template.
const (
	AssessmentSheet  = "Оценивание"
	AssignmentsSheet = "Задания"
	InfoSheet        = "Инфо"
)

// sheetAliases maps each canonical sheet to the names people actually use,
// including the English variants from the template screenshots.
var sheetAliases = map[string][]string{
	AssessmentSheet:  {AssessmentSheet, "Assessment", "Оценка", "Оценки"},
	AssignmentsSheet: {AssignmentsSheet, "Assignments", "Дедлайны"},
	InfoSheet:        {InfoSheet, "Info", "Информация"},
}

// Workbook is the parsed content of one uploaded course file.
type Workbook struct {
	Weights     []models.Weight
	Assignments []models.Assignment
	Info        []models.InfoRow
}

var dueDatePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})`)

// ParseWorkbook reads a course workbook from disk. The assessment and
// assignments sheets are required; a missing info sheet yields an empty
// resource list.
func ParseWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close() // nolint:errcheck

	wb := &Workbook{}
	if wb.Weights, err = parseWeights(f); err != nil {
		return nil, err
	}
	if wb.Assignments, err = parseAssignments(f); err != nil {
		return nil, err
	}
	if name := findSheet(f, InfoSheet); name != "" {
		if wb.Info, err = parseInfo(f, name); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// findSheet returns the workbook's actual name for a canonical sheet, or ""
// when no alias matches.
func findSheet(f *excelize.File, canonical string) string {
	aliases := sheetAliases[canonical]
	for _, name := range f.GetSheetList() {
		for _, alias := range aliases {
			if name == alias {
				return name
			}
		}
	}
	return ""
}

// parseWeights reads the assessment sheet. Expects two columns below the
// header: component label and numeric weight. Rows with a non-numeric weight
// are skipped.
func parseWeights(f *excelize.File) ([]models.Weight, error) {
	name := findSheet(f, AssessmentSheet)
	if name == "" {
		return nil, fmt.Errorf("sheet %q with course weights not found", AssessmentSheet)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", name, err)
	}

	var weights []models.Weight
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		label := cell(row, 0)
		if label == "" {
			continue
		}
		// Russian-locale workbooks render decimals with a comma
		value, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, 1), ",", "."), 64)
		if err != nil {
			continue
		}
		weights = append(weights, models.Weight{Label: label, Value: value})
	}
	return weights, nil
}

// parseAssignments reads the assignments sheet. Expects columns below the
// header: title, due date, link. Rows without a title or with an unparseable
// due date are skipped. The result is sorted by due date.
func parseAssignments(f *excelize.File) ([]models.Assignment, error) {
	name := findSheet(f, AssignmentsSheet)
	if name == "" {
		return nil, fmt.Errorf("sheet %q with assignments not found", AssignmentsSheet)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", name, err)
	}

	var assignments []models.Assignment
	for i, row := range rows {
		if i == 0 {
			continue
		}
		title := cell(row, 0)
		if title == "" {
			continue
		}
		due, ok := parseDueDate(cell(row, 1))
		if !ok {
			continue
		}
		assignments = append(assignments, models.Assignment{
			Title: title,
			Due:   due,
			Link:  cell(row, 2),
		})
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].Due.Before(assignments[j].Due)
	})
	return assignments, nil
}

// parseDueDate accepts the date encodings that show up in real course files:
// dd.mm.yyyy strings, the formats excelize renders date cells in, and raw
// Excel serial numbers.
func parseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dueDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalizes out-of-range components; reject those rows
		if t.Day() != day || t.Month() != time.Month(month) {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01-02-06",
		"1/2/06 15:04",
		"2006/01/02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseInfo reads the info sheet. Expects two columns below the header:
// resource label and value.
func parseInfo(f *excelize.File, name string) ([]models.InfoRow, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", name, err)
	}

	var info []models.InfoRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		label := cell(row, 0)
		if label == "" {
			continue
		}
		info = append(info, models.InfoRow{Label: label, Value: cell(row, 1)})
	}
	return info, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
