package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/linkian209/travel-time-anaylsis/history"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "traveltime_test.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, dbPath
}

func sampleRun(year int, createdAt time.Time, hours int) history.Run {
	return history.Run{
		Year:          year,
		TimesheetFile: "timesheet.xlsx",
		ResultsFile:   "results.xlsx",
		CreatedAt:     createdAt,
		Months: []history.MonthTotal{
			{Month: "January", TotalHours: hours, TotalDays: 2, DaysWorked: []int{3, 14}},
			{Month: "February", TotalHours: 0, TotalDays: 0, DaysWorked: []int{}},
		},
	}
}

func TestSQLiteStore_RecordAndListRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	createdAt := time.Date(2019, 1, 4, 9, 30, 0, 0, time.UTC)

	id, err := store.RecordRun(sampleRun(2018, createdAt, 16))
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive run id, got %d", id)
	}

	runs, err := store.ListRuns(2018)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != id || run.Year != 2018 || run.TimesheetFile != "timesheet.xlsx" || run.ResultsFile != "results.xlsx" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if !run.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected created at %s, got %s", createdAt, run.CreatedAt)
	}
	want := []history.MonthTotal{
		{Month: "January", TotalHours: 16, TotalDays: 2, DaysWorked: []int{3, 14}},
		{Month: "February", TotalHours: 0, TotalDays: 0, DaysWorked: []int{}},
	}
	if !reflect.DeepEqual(run.Months, want) {
		t.Fatalf("unexpected months:\n got=%+v\nwant=%+v", run.Months, want)
	}
}

func TestSQLiteStore_ListRunsFiltersAndOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, run := range []history.Run{
		sampleRun(2018, base, 8),
		sampleRun(2019, base.Add(time.Hour), 9),
		sampleRun(2018, base.Add(2*time.Hour), 10),
	} {
		if _, err := store.RecordRun(run); err != nil {
			t.Fatalf("record run %d: %v", i, err)
		}
	}

	all, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("list all runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	if all[0].Months[0].TotalHours != 10 || all[2].Months[0].TotalHours != 8 {
		t.Fatalf("expected newest run first, got %+v", all)
	}

	only2018, err := store.ListRuns(2018)
	if err != nil {
		t.Fatalf("list 2018 runs: %v", err)
	}
	if len(only2018) != 2 {
		t.Fatalf("expected 2 runs for 2018, got %d", len(only2018))
	}
}

func TestSQLiteStore_LatestRunsPerYear(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, run := range []history.Run{
		sampleRun(2019, base, 1),
		sampleRun(2018, base.Add(time.Minute), 2),
		sampleRun(2019, base.Add(2*time.Minute), 3),
	} {
		if _, err := store.RecordRun(run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	latest, err := store.LatestRuns()
	if err != nil {
		t.Fatalf("latest runs: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected one run per year, got %d", len(latest))
	}
	if latest[0].Year != 2018 || latest[1].Year != 2019 {
		t.Fatalf("expected runs ordered by year, got %d, %d", latest[0].Year, latest[1].Year)
	}
	if latest[1].Months[0].TotalHours != 3 {
		t.Fatalf("expected newest 2019 run, got %+v", latest[1])
	}
}

func TestSQLiteStore_DeleteAllRuns(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	for i := 0; i < 2; i++ {
		if _, err := store.RecordRun(sampleRun(2018, time.Now(), i)); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	deleted, err := store.DeleteAllRuns()
	if err != nil {
		t.Fatalf("delete all runs: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted runs, got %d", deleted)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs after delete, got %d", len(runs))
	}
}

func TestSQLiteStore_ReopenKeepsHistory(t *testing.T) {
	t.Parallel()

	store, dbPath := openTestStore(t)
	if _, err := store.RecordRun(sampleRun(2018, time.Now(), 5)); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.ListRuns(2018)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after reopen, got %d", len(runs))
	}
}

func TestSQLiteStore_RejectsRunWithoutYear(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	if _, err := store.RecordRun(history.Run{}); err == nil {
		t.Fatalf("expected error for run without year")
	}
}

func TestDecodeDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    []int
		wantErr bool
	}{
		{raw: "", want: []int{}},
		{raw: "1,2,31", want: []int{1, 2, 31}},
		{raw: "4, 5", want: []int{4, 5}},
		{raw: "x", wantErr: true},
	}

	for _, tc := range tests {
		got, err := decodeDays(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("decodeDays(%q) = %v, want %v", tc.raw, got, tc.want)
		}
		if encodeDays(got) != encodeDays(tc.want) {
			t.Fatalf("encodeDays mismatch for %q", tc.raw)
		}
	}
}
