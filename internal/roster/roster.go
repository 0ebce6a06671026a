// Package roster ingests student rosters from spreadsheet uploads and
// derives the generated account credentials for each student.
package roster

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BSFactor/Academic-Calendar/internal/apperr"
)

// Row is one validated roster line.
type Row struct {
	Line      int
	Name      string
	StudentID string
	Email     string
	DOB       time.Time
}

// RowError reports a line that failed validation. Err is a wire error
// code, the same register the account-creation path reports in. The
// batch never aborts on a bad row; callers collect these and keep going.
type RowError struct {
	Line int    `json:"row"`
	Err  string `json:"error"`
}

var headerAliases = map[string][]string{
	"name":       {"name", "student name"},
	"student_id": {"student id", "student_id", "id"},
	"email":      {"student email", "email", "studentemail"},
	"dob":        {"dob", "date of birth", "birthdate", "birth date"},
}

var dobFormats = []string{"2006-01-02", "02/01/2006", "02-01-2006", "02/01/06", "02-01-06"}

// ParseWorkbook reads the active sheet of an xlsx upload. The first row
// must be a header naming the name, student id, email and dob columns
// (aliases accepted); each following row yields a Row or a RowError.
func ParseWorkbook(r io.Reader) ([]Row, []RowError, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Validation, "invalid_workbook", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(file.GetActiveSheetIndex())
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Validation, "invalid_workbook", err)
	}
	return ParseRows(rows)
}

// ParseRows validates raw cell data, header row first.
func ParseRows(raw [][]string) ([]Row, []RowError, error) {
	if len(raw) < 2 {
		return nil, nil, apperr.New(apperr.Validation, "no_data_rows")
	}

	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = strings.TrimSpace(strings.ToLower(cell))
	}
	columns := make(map[string]int, len(headerAliases))
	for field, aliases := range headerAliases {
		index := -1
		for _, alias := range aliases {
			for i, name := range header {
				if name == alias {
					index = i
					break
				}
			}
			if index >= 0 {
				break
			}
		}
		if index < 0 {
			return nil, nil, apperr.New(apperr.Validation, "missing_columns")
		}
		columns[field] = index
	}

	var rows []Row
	var rowErrors []RowError
	for i, cells := range raw[1:] {
		line := i + 2 // 1-based, after the header
		row, err := parseRow(line, cells, columns)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: apperr.CodeOf(err)})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func parseRow(line int, cells []string, columns map[string]int) (Row, error) {
	row := Row{
		Line:      line,
		Name:      cellAt(cells, columns["name"]),
		StudentID: cellAt(cells, columns["student_id"]),
		Email:     strings.ToLower(cellAt(cells, columns["email"])),
	}
	dobRaw := cellAt(cells, columns["dob"])
	if row.Name == "" || row.StudentID == "" || row.Email == "" || dobRaw == "" {
		return Row{}, apperr.New(apperr.Validation, "missing_fields")
	}
	dob, err := ParseDOB(dobRaw)
	if err != nil {
		return Row{}, apperr.Wrap(apperr.Validation, "invalid_dob", err)
	}
	row.DOB = dob
	return row, nil
}

func cellAt(cells []string, index int) string {
	if index >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[index])
}

// ParseDOB accepts the date formats roster spreadsheets show up with.
func ParseDOB(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, format := range dobFormats {
		if parsed, err := time.Parse(format, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse DOB: %s", raw)
}

// Username derives an account name from the student's name, falling back
// to the student id, and disambiguates with the student id plus a counter
// until taken reports it free.
func Username(name, studentID string, taken func(string) (bool, error)) (string, error) {
	base := sanitize(name)
	if base == "" {
		base = sanitize(studentID)
	}
	candidate := base
	inUse, err := taken(candidate)
	if err != nil {
		return "", err
	}
	if !inUse {
		return candidate, nil
	}
	candidate = base + strings.ToLower(studentID)
	for counter := 0; ; counter++ {
		attempt := candidate
		if counter > 0 {
			attempt = fmt.Sprintf("%s%d", candidate, counter)
		}
		inUse, err := taken(attempt)
		if err != nil {
			return "", err
		}
		if !inUse {
			return attempt, nil
		}
	}
}

// Password is the generated initial credential: student id followed by
// the date of birth as DDMMYYYY.
func Password(studentID string, dob time.Time) string {
	return studentID + dob.Format("02012006")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
