package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/linkian209/travel-time-anaylsis/output"
	"github.com/linkian209/travel-time-anaylsis/timesheet"
)

const (
	KeyLayoutTotalsSheet    = "layout.totals_sheet"
	KeyLayoutYearSheet      = "layout.year_sheet"
	KeyLayoutYearCell       = "layout.year_cell"
	KeyLayoutPOColumn       = "layout.po_column"
	KeyLayoutStartRow       = "layout.start_row"
	KeyLayoutDayStartColumn = "layout.day_start_column"
	KeyLayoutDayEndColumn   = "layout.day_end_column"
	KeyLayoutDayOfWeekRow   = "layout.day_of_week_row"
	KeyLayoutDayNumberRow   = "layout.day_number_row"
	KeyLayoutSentinels      = "layout.sentinels"
	KeyLayoutMarkers        = "layout.markers"

	KeyResultsDaysInYear      = "results.days_in_year"
	KeyResultsHoursInYear     = "results.hours_in_year"
	KeyResultsPlaceholderText = "results.placeholder_text"

	KeyScanParallel = "scan.parallel"
	KeyScanWorkers  = "scan.workers"

	KeyHistoryEnabled = "history.enabled"
	KeyHistoryDB      = "history.db"

	DefaultHistoryDB = "traveltime.db"
	EnvPrefix        = "TRAVELTIME"
)

type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout" yaml:"layout"`
	Results ResultsConfig `mapstructure:"results" yaml:"results"`
	Scan    ScanConfig    `mapstructure:"scan" yaml:"scan"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

type LayoutConfig struct {
	TotalsSheet    string   `mapstructure:"totals_sheet" yaml:"totals_sheet" validate:"required"`
	YearSheet      string   `mapstructure:"year_sheet" yaml:"year_sheet" validate:"required"`
	YearCell       string   `mapstructure:"year_cell" yaml:"year_cell" validate:"required"`
	POColumn       int      `mapstructure:"po_column" yaml:"po_column" validate:"gte=1"`
	StartRow       int      `mapstructure:"start_row" yaml:"start_row" validate:"gte=1"`
	DayStartColumn int      `mapstructure:"day_start_column" yaml:"day_start_column" validate:"gte=1"`
	DayEndColumn   int      `mapstructure:"day_end_column" yaml:"day_end_column" validate:"gtefield=DayStartColumn"`
	DayOfWeekRow   int      `mapstructure:"day_of_week_row" yaml:"day_of_week_row" validate:"gte=1"`
	DayNumberRow   int      `mapstructure:"day_number_row" yaml:"day_number_row" validate:"gte=1"`
	Sentinels      []string `mapstructure:"sentinels" yaml:"sentinels" validate:"min=1,dive,required"`
	Markers        []string `mapstructure:"markers" yaml:"markers" validate:"min=1,dive,required"`
}

type ResultsConfig struct {
	DaysInYear      int    `mapstructure:"days_in_year" yaml:"days_in_year" validate:"gte=1,lte=366"`
	HoursInYear     int    `mapstructure:"hours_in_year" yaml:"hours_in_year" validate:"gte=1,lte=8784"`
	PlaceholderText string `mapstructure:"placeholder_text" yaml:"placeholder_text" validate:"required"`
}

type ScanConfig struct {
	Parallel bool `mapstructure:"parallel" yaml:"parallel"`
	Workers  int  `mapstructure:"workers" yaml:"workers" validate:"gte=1,lte=64"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DB      string `mapstructure:"db" yaml:"db" validate:"required_if=Enabled true"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# traveltime configuration
layout:
  totals_sheet: "Totals"
  year_sheet: "January"
  year_cell: "AF1"
  po_column: 1
  start_row: 4
  day_start_column: 3
  day_end_column: 33
  day_of_week_row: 2
  day_number_row: 3
  # a PO cell matching one of these ends the month's rows
  sentinels:
    - "CTI Holiday"
    - "=January!$A$64"
    - "=January!$A$36"
  # a PO label containing one of these is out-of-town work
  markers:
    - "(5)"
    - "(6)"

results:
  days_in_year: 260
  hours_in_year: 2080
  placeholder_text: "Delete this sheet"

scan:
  parallel: false
  workers: 4

history:
  enabled: true
  db: "traveltime.db"
`
}

// ToLayout converts the layout section into a timesheet layout.
func (c *Config) ToLayout() timesheet.Layout {
	return timesheet.Layout{
		TotalsSheet:    c.Layout.TotalsSheet,
		YearSheet:      c.Layout.YearSheet,
		YearCell:       strings.ToUpper(strings.TrimSpace(c.Layout.YearCell)),
		POColumn:       c.Layout.POColumn,
		StartRow:       c.Layout.StartRow,
		DayStartColumn: c.Layout.DayStartColumn,
		DayEndColumn:   c.Layout.DayEndColumn,
		DayOfWeekRow:   c.Layout.DayOfWeekRow,
		DayNumberRow:   c.Layout.DayNumberRow,
		Sentinels:      append([]string(nil), c.Layout.Sentinels...),
		Markers:        append([]string(nil), c.Layout.Markers...),
	}
}

func (c *Config) ResultsOptions() output.ResultsOptions {
	return output.ResultsOptions{
		DaysInYear:  c.Results.DaysInYear,
		HoursInYear: c.Results.HoursInYear,
	}
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := cfg.ToLayout().Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	layout := timesheet.DefaultLayout()
	v.SetDefault(KeyLayoutTotalsSheet, layout.TotalsSheet)
	v.SetDefault(KeyLayoutYearSheet, layout.YearSheet)
	v.SetDefault(KeyLayoutYearCell, layout.YearCell)
	v.SetDefault(KeyLayoutPOColumn, layout.POColumn)
	v.SetDefault(KeyLayoutStartRow, layout.StartRow)
	v.SetDefault(KeyLayoutDayStartColumn, layout.DayStartColumn)
	v.SetDefault(KeyLayoutDayEndColumn, layout.DayEndColumn)
	v.SetDefault(KeyLayoutDayOfWeekRow, layout.DayOfWeekRow)
	v.SetDefault(KeyLayoutDayNumberRow, layout.DayNumberRow)
	v.SetDefault(KeyLayoutSentinels, layout.Sentinels)
	v.SetDefault(KeyLayoutMarkers, layout.Markers)

	v.SetDefault(KeyResultsDaysInYear, output.DefaultDaysInYear)
	v.SetDefault(KeyResultsHoursInYear, output.DefaultHoursInYear)
	v.SetDefault(KeyResultsPlaceholderText, output.DefaultPlaceholderText)

	v.SetDefault(KeyScanParallel, false)
	v.SetDefault(KeyScanWorkers, 4)

	v.SetDefault(KeyHistoryEnabled, true)
	v.SetDefault(KeyHistoryDB, DefaultHistoryDB)
}
