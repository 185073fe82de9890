package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/linkian209/travel-time-anaylsis/internal/timeutil"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultDaysInYear      = 260
	DefaultHoursInYear     = 2080
	DefaultPlaceholderText = "Delete this sheet"

	placeholderSheet = "Sheet"
	sectionFill      = "#DADADA"
	percentFormat    = 10 // 0.00%
)

type ResultsOptions struct {
	DaysInYear  int
	HoursInYear int
}

func (o ResultsOptions) withDefaults() ResultsOptions {
	if o.DaysInYear <= 0 {
		o.DaysInYear = DefaultDaysInYear
	}
	if o.HoursInYear <= 0 {
		o.HoursInYear = DefaultHoursInYear
	}
	return o
}

// ResultsFile is an open results workbook holding one page per year.
type ResultsFile struct {
	path    string
	file    *excelize.File
	options ResultsOptions
}

// EnsureResultsFile creates a results workbook with a single placeholder sheet
// when path does not exist yet. It reports whether the file was created.
func EnsureResultsFile(path, placeholder string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat results file %s: %w", path, err)
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholderText
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), placeholderSheet); err != nil {
		return false, fmt.Errorf("name placeholder sheet: %w", err)
	}
	if err := file.SetCellValue(placeholderSheet, "A1", placeholder); err != nil {
		return false, fmt.Errorf("set placeholder text: %w", err)
	}
	if err := file.SaveAs(path); err != nil {
		return false, fmt.Errorf("create results file %s: %w", path, err)
	}
	return true, nil
}

func OpenResults(path string, options ResultsOptions) (*ResultsFile, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open results file %s: %w", path, err)
	}
	return &ResultsFile{path: path, file: file, options: options.withDefaults()}, nil
}

func (r *ResultsFile) Save() error {
	if err := r.file.Save(); err != nil {
		return fmt.Errorf("save results file %s: %w", r.path, err)
	}
	return nil
}

func (r *ResultsFile) Close() error {
	return r.file.Close()
}

func (r *ResultsFile) HasYearPage(year int) bool {
	index, err := r.file.GetSheetIndex(pageName(year))
	return err == nil && index >= 0
}

// CreateYearPage adds a formatted page for year and keeps page names sorted.
func (r *ResultsFile) CreateYearPage(year int) error {
	page := pageName(year)
	if r.HasYearPage(year) {
		return fmt.Errorf("results page %s already exists", page)
	}
	if _, err := r.file.NewSheet(page); err != nil {
		return fmt.Errorf("create results page %s: %w", page, err)
	}

	styles, err := newPageStyles(r.file)
	if err != nil {
		return err
	}
	layout := pageLayout{file: r.file, page: page, styles: styles}

	layout.section("A1", "F1", fmt.Sprintf("%d Totals", year))
	layout.section("A16", "F16", "Calculations")
	layout.section("A19", "F19", "Totals Breakdown")

	for _, width := range []struct {
		col   string
		width float64
	}{
		{"A", 15}, {"C", 13}, {"D", 10}, {"E", 17.5}, {"F", 16.5},
	} {
		if layout.err == nil {
			layout.err = r.file.SetColWidth(page, width.col, width.col, width.width)
		}
	}

	titles := []string{"Month", "Hours", "Days Worked", "", "Cumulative Hours", "Cumulative Days"}
	totals := []string{"Total", "", "", "", "=E14", "=F14"}
	for i := range titles {
		col := i + 1
		layout.bold(col, 2, titles[i])
		layout.bold(col, totalRow, totals[i])
	}

	for row := firstMonthRow; row <= lastMonthRow; row++ {
		if row == firstMonthRow {
			layout.formula(5, row, "=$B$3")
			layout.formula(6, row, "=$C$3")
			continue
		}
		layout.formula(5, row, fmt.Sprintf("=E%d+B%d", row-1, row))
		layout.formula(6, row, fmt.Sprintf("=F%d+C%d", row-1, row))
	}

	layout.bold(1, 17, "Days in Year")
	layout.value(2, 17, r.options.DaysInYear)
	layout.bold(1, 18, "Hours in Year")
	layout.value(2, 18, r.options.HoursInYear)
	layout.bold(4, 17, "% in Days")
	layout.percent(5, 17, "=ABS(F14/B17)")
	layout.bold(4, 18, "% in Hours")
	layout.percent(5, 18, "=ABS(E14/B18)")

	layout.bold(1, 20, "Days Domestic")
	layout.bold(1, 21, "Hours Domestic")
	layout.bold(5, 20, "Days Foreign")
	layout.bold(5, 21, "Hours Foreign")

	if layout.err != nil {
		return fmt.Errorf("format results page %s: %w", page, layout.err)
	}
	return r.sortPages(page)
}

// WriteMonth writes the month name and totals into the month's row of the
// year page.
func (r *ResultsFile) WriteMonth(year int, month string, hours, days int) error {
	name, _, ok := timeutil.CanonicalMonth(month)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	row, err := MonthRow(name)
	if err != nil {
		return err
	}
	if !r.HasYearPage(year) {
		return fmt.Errorf("results page %s does not exist", pageName(year))
	}

	page := pageName(year)
	values := []any{name, hours, days}
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := r.file.SetCellValue(page, cell, value); err != nil {
			return fmt.Errorf("write %s!%s: %w", page, cell, err)
		}
	}
	return nil
}

// sortPages orders all pages by name and activates page.
func (r *ResultsFile) sortPages(page string) error {
	sorted := append([]string(nil), r.file.GetSheetList()...)
	sort.Strings(sorted)

	for i, name := range sorted {
		current := r.file.GetSheetList()
		if current[i] == name {
			continue
		}
		if err := r.file.MoveSheet(name, current[i]); err != nil {
			return fmt.Errorf("move results page %s: %w", name, err)
		}
	}

	index, err := r.file.GetSheetIndex(page)
	if err != nil {
		return fmt.Errorf("locate results page %s: %w", page, err)
	}
	r.file.SetActiveSheet(index)
	return nil
}

func pageName(year int) string {
	return strconv.Itoa(year)
}

type pageStyles struct {
	section int
	bold    int
	percent int
}

func newPageStyles(file *excelize.File) (pageStyles, error) {
	var (
		styles pageStyles
		err    error
	)
	styles.section, err = file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{sectionFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return styles, fmt.Errorf("create section style: %w", err)
	}
	styles.bold, err = file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles, fmt.Errorf("create bold style: %w", err)
	}
	styles.percent, err = file.NewStyle(&excelize.Style{NumFmt: percentFormat})
	if err != nil {
		return styles, fmt.Errorf("create percent style: %w", err)
	}
	return styles, nil
}

// pageLayout writes page cells, keeping the first error.
type pageLayout struct {
	file   *excelize.File
	page   string
	styles pageStyles
	err    error
}

func (l *pageLayout) section(from, to, title string) {
	if l.err != nil {
		return
	}
	if l.err = l.file.MergeCell(l.page, from, to); l.err != nil {
		return
	}
	if l.err = l.file.SetCellValue(l.page, from, title); l.err != nil {
		return
	}
	l.err = l.file.SetCellStyle(l.page, from, to, l.styles.section)
}

func (l *pageLayout) bold(col, row int, text string) {
	if l.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if strings.HasPrefix(text, "=") {
		l.err = l.file.SetCellFormula(l.page, cell, strings.TrimPrefix(text, "="))
	} else if text != "" {
		l.err = l.file.SetCellValue(l.page, cell, text)
	}
	if l.err == nil {
		l.err = l.file.SetCellStyle(l.page, cell, cell, l.styles.bold)
	}
}

func (l *pageLayout) value(col, row int, value any) {
	if l.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	l.err = l.file.SetCellValue(l.page, cell, value)
}

func (l *pageLayout) formula(col, row int, formula string) {
	if l.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	// excelize stores formulas without the leading "=".
	l.err = l.file.SetCellFormula(l.page, cell, strings.TrimPrefix(formula, "="))
}

func (l *pageLayout) percent(col, row int, formula string) {
	l.formula(col, row, formula)
	if l.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	l.err = l.file.SetCellStyle(l.page, cell, cell, l.styles.percent)
}
