package output

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/linkian209/travel-time-anaylsis/timesheet"
)

func newResultsPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.xlsx")
	created, err := EnsureResultsFile(path, "")
	if err != nil {
		t.Fatalf("ensure results file: %v", err)
	}
	if !created {
		t.Fatalf("expected results file to be created")
	}
	return path
}

func openResults(t *testing.T, path string) *ResultsFile {
	t.Helper()
	results, err := OpenResults(path, ResultsOptions{})
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	t.Cleanup(func() { _ = results.Close() })
	return results
}

func reopen(t *testing.T, path string) *excelize.File {
	t.Helper()
	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen %s: %v", path, err)
	}
	t.Cleanup(func() { _ = file.Close() })
	return file
}

func cellValue(t *testing.T, file *excelize.File, sheet, cell string) string {
	t.Helper()
	value, err := file.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("read %s!%s: %v", sheet, cell, err)
	}
	return value
}

func cellFormula(t *testing.T, file *excelize.File, sheet, cell string) string {
	t.Helper()
	formula, err := file.GetCellFormula(sheet, cell)
	if err != nil {
		t.Fatalf("read formula %s!%s: %v", sheet, cell, err)
	}
	return "=" + strings.TrimPrefix(formula, "=")
}

func aggregate(month string, hours int, days ...int) timesheet.MonthAggregate {
	agg := timesheet.NewMonthAggregate(month)
	agg.TotalHours = hours
	agg.AddDays(days...)
	agg.TotalDays = len(agg.DaysWorked)
	return agg
}

func TestEnsureResultsFile_CreatesPlaceholderOnce(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	file := reopen(t, path)
	if got := file.GetSheetList(); !reflect.DeepEqual(got, []string{"Sheet"}) {
		t.Fatalf("expected single placeholder sheet, got %v", got)
	}
	if got := cellValue(t, file, "Sheet", "A1"); got != "Delete this sheet" {
		t.Fatalf("unexpected placeholder text %q", got)
	}

	created, err := EnsureResultsFile(path, "ignored")
	if err != nil {
		t.Fatalf("ensure existing results file: %v", err)
	}
	if created {
		t.Fatalf("expected existing results file to be kept")
	}
}

func TestEnsureResultsFile_FailsForUnwritablePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing-dir", "results.xlsx")
	if _, err := EnsureResultsFile(path, ""); err == nil {
		t.Fatalf("expected error creating results file in missing directory")
	}
}

func TestCreateYearPage_Layout(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	results := openResults(t, path)
	if results.HasYearPage(2018) {
		t.Fatalf("did not expect a 2018 page yet")
	}
	if err := results.CreateYearPage(2018); err != nil {
		t.Fatalf("create year page: %v", err)
	}
	if !results.HasYearPage(2018) {
		t.Fatalf("expected 2018 page")
	}
	if err := results.CreateYearPage(2018); err == nil {
		t.Fatalf("expected error creating a duplicate page")
	}
	if err := results.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	file := reopen(t, path)
	values := map[string]string{
		"A1":  "2018 Totals",
		"A2":  "Month",
		"B2":  "Hours",
		"C2":  "Days Worked",
		"D2":  "",
		"E2":  "Cumulative Hours",
		"F2":  "Cumulative Days",
		"A15": "Total",
		"A16": "Calculations",
		"A17": "Days in Year",
		"B17": "260",
		"A18": "Hours in Year",
		"B18": "2080",
		"D17": "% in Days",
		"D18": "% in Hours",
		"A19": "Totals Breakdown",
		"A20": "Days Domestic",
		"A21": "Hours Domestic",
		"E20": "Days Foreign",
		"E21": "Hours Foreign",
	}
	for cell, want := range values {
		if got := cellValue(t, file, "2018", cell); got != want {
			t.Fatalf("2018!%s = %q, want %q", cell, got, want)
		}
	}

	formulas := map[string]string{
		"E3":  "=$B$3",
		"F3":  "=$C$3",
		"E4":  "=E3+B4",
		"F4":  "=F3+C4",
		"E14": "=E13+B14",
		"F14": "=F13+C14",
		"E15": "=E14",
		"F15": "=F14",
		"E17": "=ABS(F14/B17)",
		"E18": "=ABS(E14/B18)",
	}
	for cell, want := range formulas {
		if got := cellFormula(t, file, "2018", cell); got != want {
			t.Fatalf("2018!%s formula = %q, want %q", cell, got, want)
		}
	}

	merged, err := file.GetMergeCells("2018")
	if err != nil {
		t.Fatalf("read merged cells: %v", err)
	}
	ranges := make(map[string]bool)
	for _, cell := range merged {
		ranges[cell.GetStartAxis()+":"+cell.GetEndAxis()] = true
	}
	for _, want := range []string{"A1:F1", "A16:F16", "A19:F19"} {
		if !ranges[want] {
			t.Fatalf("expected merged range %s, got %v", want, ranges)
		}
	}

	widths := map[string]float64{"A": 15, "C": 13, "D": 10, "E": 17.5, "F": 16.5}
	for col, want := range widths {
		got, err := file.GetColWidth("2018", col)
		if err != nil {
			t.Fatalf("read width of %s: %v", col, err)
		}
		if got != want {
			t.Fatalf("column %s width = %v, want %v", col, got, want)
		}
	}

	styleID, err := file.GetCellStyle("2018", "E17")
	if err != nil {
		t.Fatalf("read E17 style: %v", err)
	}
	style, err := file.GetStyle(styleID)
	if err != nil {
		t.Fatalf("resolve E17 style: %v", err)
	}
	if style.NumFmt != 10 {
		t.Fatalf("expected percent number format on E17, got %d", style.NumFmt)
	}
}

func TestCreateYearPage_KeepsPagesSorted(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	results := openResults(t, path)
	for _, year := range []int{2019, 2017, 2018} {
		if err := results.CreateYearPage(year); err != nil {
			t.Fatalf("create %d: %v", year, err)
		}
	}
	if err := results.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := reopen(t, path).GetSheetList()
	want := []string{"2017", "2018", "2019", "Sheet"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sheet order = %v, want %v", got, want)
	}
}

func TestCreateYearPage_UsesConfiguredYearConstants(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	results, err := OpenResults(path, ResultsOptions{DaysInYear: 250, HoursInYear: 2000})
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer results.Close()
	if err := results.CreateYearPage(2020); err != nil {
		t.Fatalf("create page: %v", err)
	}
	if err := results.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	file := reopen(t, path)
	if got := cellValue(t, file, "2020", "B17"); got != "250" {
		t.Fatalf("B17 = %q, want 250", got)
	}
	if got := cellValue(t, file, "2020", "B18"); got != "2000" {
		t.Fatalf("B18 = %q, want 2000", got)
	}
}

func TestWriteReport_RerunReusesPageAndOverwritesMonths(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	runs := [][]timesheet.MonthAggregate{
		{aggregate("January", 8, 14), aggregate("February", 0)},
		{aggregate("January", 12, 14, 15), aggregate("February", 4, 2)},
	}
	for i, months := range runs {
		results := openResults(t, path)
		if err := WriteReport(results, 2018, months); err != nil {
			t.Fatalf("run %d: write report: %v", i, err)
		}
		if err := results.Save(); err != nil {
			t.Fatalf("run %d: save: %v", i, err)
		}
		if err := results.Close(); err != nil {
			t.Fatalf("run %d: close: %v", i, err)
		}
	}

	file := reopen(t, path)
	if got := file.GetSheetList(); !reflect.DeepEqual(got, []string{"2018", "Sheet"}) {
		t.Fatalf("expected a single 2018 page, got %v", got)
	}
	rows := map[string]string{
		"A3": "January", "B3": "12", "C3": "2",
		"A4": "February", "B4": "4", "C4": "1",
		"A5": "",
	}
	for cell, want := range rows {
		if got := cellValue(t, file, "2018", cell); got != want {
			t.Fatalf("2018!%s = %q, want %q", cell, got, want)
		}
	}
}

func TestWriteMonth_CanonicalisesNames(t *testing.T) {
	t.Parallel()

	path := newResultsPath(t)
	results := openResults(t, path)
	if err := results.CreateYearPage(2018); err != nil {
		t.Fatalf("create page: %v", err)
	}
	if err := results.WriteMonth(2018, "DECEMBER", 3, 1); err != nil {
		t.Fatalf("write month: %v", err)
	}
	if err := results.WriteMonth(2018, "Notes", 3, 1); !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth, got %v", err)
	}
	if err := results.WriteMonth(2019, "May", 3, 1); err == nil {
		t.Fatalf("expected error writing to a missing page")
	}
	if err := results.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := cellValue(t, reopen(t, path), "2018", "A14"); got != "December" {
		t.Fatalf("A14 = %q, want December", got)
	}
}

type recordingWriter struct {
	pages  map[int]bool
	writes []string
}

func (w *recordingWriter) HasYearPage(year int) bool { return w.pages[year] }

func (w *recordingWriter) CreateYearPage(year int) error {
	w.pages[year] = true
	w.writes = append(w.writes, "create")
	return nil
}

func (w *recordingWriter) WriteMonth(year int, month string, hours, days int) error {
	w.writes = append(w.writes, month)
	return nil
}

func TestWriteReport_ValidatesMonthsBeforeWriting(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{pages: map[int]bool{}}
	err := WriteReport(writer, 2018, []timesheet.MonthAggregate{aggregate("January", 1, 1), aggregate("Summary", 0)})
	if !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth, got %v", err)
	}
	if len(writer.writes) != 0 {
		t.Fatalf("expected nothing written, got %v", writer.writes)
	}

	if err := WriteReport(writer, 2018, []timesheet.MonthAggregate{aggregate("January", 1, 1)}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if err := WriteReport(writer, 2018, []timesheet.MonthAggregate{aggregate("March", 1, 1)}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	want := []string{"create", "January", "March"}
	if !reflect.DeepEqual(writer.writes, want) {
		t.Fatalf("writes = %v, want %v", writer.writes, want)
	}
}

func TestMonthRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		month   string
		want    int
		wantErr bool
	}{
		{month: "January", want: 3},
		{month: "june", want: 8},
		{month: "DECEMBER", want: 14},
		{month: "Totals", wantErr: true},
		{month: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := MonthRow(tc.month)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownMonth) {
				t.Fatalf("MonthRow(%q): expected ErrUnknownMonth, got %v", tc.month, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("MonthRow(%q): %v", tc.month, err)
		}
		if got != tc.want {
			t.Fatalf("MonthRow(%q) = %d, want %d", tc.month, got, tc.want)
		}
	}
}
