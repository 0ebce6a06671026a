package roster

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestParseRowsHeaderAliases(t *testing.T) {
	raw := [][]string{
		{"Student Name", "ID", "Email", "Date of Birth"},
		{"Jane Doe", "S1001", "jane@example.edu", "2004-05-17"},
	}
	rows, rowErrors, err := ParseRows(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Name != "Jane Doe" || row.StudentID != "S1001" || row.Email != "jane@example.edu" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !row.DOB.Equal(time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected dob: %s", row.DOB)
	}
}

func TestParseRowsCollectsRowErrors(t *testing.T) {
	raw := [][]string{
		{"name", "student id", "student email", "dob"},
		{"Jane Doe", "S1001", "jane@example.edu", "17/05/2004"},
		{"", "S1002", "missing.name@example.edu", "2004-01-01"},
		{"Bad Dob", "S1003", "bad.dob@example.edu", "yesterday"},
		{"John Roe", "S1004", "john@example.edu", "01-02-06"},
	}
	rows, rowErrors, err := ParseRows(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 good rows, got %d", len(rows))
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(rowErrors))
	}
	if rowErrors[0].Line != 3 || rowErrors[1].Line != 4 {
		t.Fatalf("expected errors on lines 3 and 4, got %+v", rowErrors)
	}
	// Row errors carry wire codes, not prose.
	if rowErrors[0].Err != "missing_fields" || rowErrors[1].Err != "invalid_dob" {
		t.Fatalf("expected wire error codes, got %+v", rowErrors)
	}
}

func TestParseRowsMissingHeader(t *testing.T) {
	raw := [][]string{
		{"name", "student id", "dob"},
		{"Jane Doe", "S1001", "2004-05-17"},
	}
	if _, _, err := ParseRows(raw); err == nil {
		t.Fatalf("expected missing email column to error")
	}

	if _, _, err := ParseRows([][]string{{"name", "student id", "email", "dob"}}); err == nil {
		t.Fatalf("expected header-only sheet to error")
	}
}

func TestParseWorkbook(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(file.GetActiveSheetIndex())
	cells := [][]interface{}{
		{"name", "student id", "student email", "dob"},
		{"Jane Doe", "S1001", "jane@example.edu", "2004-05-17"},
		{"John Roe", "S1002", "john@example.edu", "23/11/2003"},
	}
	for i, rowCells := range cells {
		for j, value := range rowCells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name error: %v", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell error: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write workbook error: %v", err)
	}

	rows, rowErrors, err := ParseWorkbook(&buf)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].DOB.Day() != 23 || rows[1].DOB.Month() != time.November {
		t.Fatalf("unexpected dob on second row: %s", rows[1].DOB)
	}
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	if _, _, err := ParseWorkbook(bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatalf("expected invalid workbook to error")
	}
}

func TestUsernameGeneration(t *testing.T) {
	free := func(string) (bool, error) { return false, nil }

	name, err := Username("Jane Doe", "S1001", free)
	if err != nil {
		t.Fatalf("username error: %v", err)
	}
	if name != "janedoe" {
		t.Fatalf("expected janedoe, got %s", name)
	}

	// Name collapses to nothing: fall back to the student id.
	name, err = Username("数学", "S1001", free)
	if err != nil {
		t.Fatalf("username error: %v", err)
	}
	if name != "s1001" {
		t.Fatalf("expected s1001, got %s", name)
	}

	// First candidate taken: append student id, then a counter.
	takenSet := map[string]bool{"janedoe": true, "janedoes1001": true, "janedoes10011": true}
	name, err = Username("Jane Doe", "S1001", func(candidate string) (bool, error) {
		return takenSet[candidate], nil
	})
	if err != nil {
		t.Fatalf("username error: %v", err)
	}
	if name != "janedoes10012" {
		t.Fatalf("expected janedoes10012, got %s", name)
	}
}

func TestPasswordGeneration(t *testing.T) {
	dob := time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)
	if got := Password("S1001", dob); got != "S100117052004" {
		t.Fatalf("expected S100117052004, got %s", got)
	}
}
