package gantt

import (
	"strings"
	"testing"
	"time"

	"github.com/ganttd/ganttd/internal/tabular"
)

var baseMapping = ColumnMapping{
	IDColumn:    "id",
	NameColumn:  "name",
	StartColumn: "start",
	EndColumn:   "end",
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func dataset(rows ...tabular.Row) *tabular.Dataset {
	columns := []string{"id", "name", "start", "end", "progress", "deps", "team", "owner"}
	return &tabular.Dataset{Columns: columns, Rows: rows}
}

func row(id tabular.Value, start, end string) tabular.Row {
	r := tabular.Row{"id": id}
	if start != "" {
		r["start"] = tabular.Text(start)
	}
	if end != "" {
		r["end"] = tabular.Text(end)
	}
	return r
}

func transform(t *testing.T, ds *tabular.Dataset, mapping ColumnMapping, opts Options) *TransformResult {
	t.Helper()
	tr := NewTransformer(nil)
	result, err := tr.Transform(ds, mapping, opts)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return result
}

func TestTransformNilDataset(t *testing.T) {
	tr := NewTransformer(nil)
	_, err := tr.Transform(nil, baseMapping, Options{})
	reqErr, ok := err.(*RequestError)
	if !ok || reqErr.Code != ErrDatasetNotSpecified {
		t.Fatalf("err = %v, want DATASET_NOT_SPECIFIED", err)
	}
}

func TestTransformEmptyDataset(t *testing.T) {
	result := transform(t, dataset(), baseMapping, Options{})
	if len(result.Tasks) != 0 || result.Metadata.TotalRows != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	reqErr := result.RequestError()
	if reqErr == nil || reqErr.Code != ErrEmptyDataset {
		t.Fatalf("RequestError = %v, want EMPTY_DATASET", reqErr)
	}
}

func TestTransformColumnNotFound(t *testing.T) {
	ds := dataset(row(tabular.Number(1), "2024-01-01", "2024-01-05"))
	mapping := baseMapping
	mapping.StartColumn = "missing_col"

	tr := NewTransformer(nil)
	_, err := tr.Transform(ds, mapping, Options{})
	reqErr, ok := err.(*RequestError)
	if !ok || reqErr.Code != ErrColumnNotFound {
		t.Fatalf("err = %v, want COLUMN_NOT_FOUND", err)
	}
	if reqErr.Details["column"] != "missing_col" {
		t.Errorf("details = %v, want offending column name", reqErr.Details)
	}
}

func TestTransformMissingRequiredMapping(t *testing.T) {
	tr := NewTransformer(nil)
	_, err := tr.Transform(dataset(), ColumnMapping{IDColumn: "id"}, Options{})
	reqErr, ok := err.(*RequestError)
	if !ok || reqErr.Code != ErrInvalidConfiguration {
		t.Fatalf("err = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestTransformInvalidOptions(t *testing.T) {
	tr := NewTransformer(nil)
	_, err := tr.Transform(dataset(), baseMapping, Options{SortBy: "bogus"})
	reqErr, ok := err.(*RequestError)
	if !ok || reqErr.Code != ErrInvalidConfiguration {
		t.Fatalf("err = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestTransformBasicRow(t *testing.T) {
	ds := dataset(row(tabular.Number(1), "2024-01-01", "2024-01-05"))
	result := transform(t, ds, baseMapping, Options{})

	if len(result.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(result.Tasks))
	}
	task := result.Tasks[0]
	if task.ID != "1" || task.Name != "1" || task.Start != "2024-01-01" || task.End != "2024-01-05" {
		t.Errorf("unexpected task: %+v", task)
	}
	if result.Metadata.DisplayedRows != 1 || result.Metadata.SkippedRows != 0 {
		t.Errorf("unexpected metadata: %+v", result.Metadata)
	}
}

// Scenario: rows with ids 1 and 1.0 collide after normalization; rename
// policy keeps both.
func TestTransformDuplicateRename(t *testing.T) {
	ds := dataset(
		row(tabular.Number(1), "2024-01-01", "2024-01-05"),
		row(tabular.Number(1.0), "2024-01-02", "2024-01-03"),
	)
	result := transform(t, ds, baseMapping, Options{DuplicateIDPolicy: DuplicateRename})

	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	ids := map[string]bool{}
	for _, task := range result.Tasks {
		ids[task.ID] = true
	}
	if !ids["1"] || !ids["1_1"] {
		t.Errorf("ids = %v, want 1 and 1_1", ids)
	}
	if len(result.Metadata.Warnings) != 1 || !strings.Contains(result.Metadata.Warnings[0], `"1"`) {
		t.Errorf("warnings = %v, want duplicate warning naming id 1", result.Metadata.Warnings)
	}
}

func TestTransformDuplicateSkip(t *testing.T) {
	ds := dataset(
		row(tabular.Text("a"), "2024-01-01", "2024-01-05"),
		row(tabular.Text("a"), "2024-01-02", "2024-01-03"),
		row(tabular.Text("a"), "2024-01-03", "2024-01-04"),
	)
	result := transform(t, ds, baseMapping, Options{DuplicateIDPolicy: DuplicateSkip})

	if len(result.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(result.Tasks))
	}
	if result.Metadata.SkipReasons[SkipDuplicateID] != 2 {
		t.Errorf("skip reasons = %v, want duplicate_id=2", result.Metadata.SkipReasons)
	}
	if result.Metadata.SkippedRows != 2 {
		t.Errorf("skippedRows = %d, want 2", result.Metadata.SkippedRows)
	}
}

// Scenario: a dependency on a task that does not exist is dropped with one
// warning naming both sides.
func TestTransformDanglingDependency(t *testing.T) {
	mapping := baseMapping
	mapping.DependenciesColumn = "deps"
	a := row(tabular.Text("A"), "2024-01-01", "2024-01-02")
	b := row(tabular.Text("B"), "2024-01-02", "2024-01-03")
	b["deps"] = tabular.Text("A")
	c := row(tabular.Text("C"), "2024-01-03", "2024-01-04")
	c["deps"] = tabular.Text("MISSING")

	result := transform(t, dataset(a, b, c), mapping, Options{})

	var taskC *Task
	for i := range result.Tasks {
		if result.Tasks[i].ID == "C" {
			taskC = &result.Tasks[i]
		}
	}
	if taskC == nil {
		t.Fatal("task C missing from output")
	}
	if len(taskC.Dependencies) != 0 {
		t.Errorf("C dependencies = %v, want none", taskC.Dependencies)
	}
	if len(result.Metadata.Warnings) != 1 ||
		!strings.Contains(result.Metadata.Warnings[0], "MISSING") ||
		!strings.Contains(result.Metadata.Warnings[0], `"C"`) {
		t.Errorf("warnings = %v, want one naming MISSING and C", result.Metadata.Warnings)
	}
}

// Scenario: A->B->C->A cycle loses exactly one edge and produces one warning.
func TestTransformDependencyCycle(t *testing.T) {
	mapping := baseMapping
	mapping.DependenciesColumn = "deps"
	a := row(tabular.Text("A"), "2024-01-01", "2024-01-02")
	a["deps"] = tabular.Text("C")
	b := row(tabular.Text("B"), "2024-01-02", "2024-01-03")
	b["deps"] = tabular.Text("A")
	c := row(tabular.Text("C"), "2024-01-03", "2024-01-04")
	c["deps"] = tabular.Text("B")

	result := transform(t, dataset(a, b, c), mapping, Options{})

	total := 0
	for _, task := range result.Tasks {
		total += len(task.Dependencies)
	}
	if total != 2 {
		t.Errorf("kept %d edges, want 2", total)
	}
	cycleWarnings := 0
	for _, w := range result.Metadata.Warnings {
		if strings.Contains(w, "cycle") {
			cycleWarnings++
		}
	}
	if cycleWarnings != 1 {
		t.Errorf("warnings = %v, want exactly one cycle warning", result.Metadata.Warnings)
	}
}

// Scenario: invalid start date skips the row without failing the request.
func TestTransformInvalidStartDate(t *testing.T) {
	ds := dataset(row(tabular.Number(1), "2024-13-40", "2024-01-05"))
	result := transform(t, ds, baseMapping, Options{})

	if len(result.Tasks) != 0 {
		t.Fatalf("tasks = %d, want 0", len(result.Tasks))
	}
	if result.Metadata.SkipReasons[SkipInvalidStartDate] != 1 {
		t.Errorf("skip reasons = %v, want invalid_start_date=1", result.Metadata.SkipReasons)
	}
	reqErr := result.RequestError()
	if reqErr == nil || reqErr.Code != ErrNoValidTasks {
		t.Errorf("RequestError = %v, want NO_VALID_TASKS", reqErr)
	}
}

func TestTransformStartAfterEnd(t *testing.T) {
	ds := dataset(
		row(tabular.Number(1), "2024-02-01", "2024-01-01"),
		row(tabular.Number(2), "2024-01-01", "2024-01-01"), // zero duration is valid
	)
	result := transform(t, ds, baseMapping, Options{})

	if len(result.Tasks) != 1 || result.Tasks[0].ID != "2" {
		t.Fatalf("tasks = %+v, want only task 2", result.Tasks)
	}
	if result.Metadata.SkipReasons[SkipStartAfterEnd] != 1 {
		t.Errorf("skip reasons = %v, want start_after_end=1", result.Metadata.SkipReasons)
	}
}

func TestTransformMissingDates(t *testing.T) {
	ds := dataset(row(tabular.Number(1), "", "2024-01-05"))
	result := transform(t, ds, baseMapping, Options{})

	if result.Metadata.SkipReasons[SkipMissingRequiredField] != 1 {
		t.Errorf("skip reasons = %v, want missing_required_field=1", result.Metadata.SkipReasons)
	}
}

// Scenario: progress 150 clamps to 100; non-numeric progress omits the
// field but keeps the row.
func TestTransformProgress(t *testing.T) {
	mapping := baseMapping
	mapping.ProgressColumn = "progress"
	over := row(tabular.Number(1), "2024-01-01", "2024-01-05")
	over["progress"] = tabular.Number(150)
	junk := row(tabular.Number(2), "2024-01-01", "2024-01-05")
	junk["progress"] = tabular.Text("abc")
	negative := row(tabular.Number(3), "2024-01-01", "2024-01-05")
	negative["progress"] = tabular.Number(-10)

	result := transform(t, dataset(over, junk, negative), mapping, Options{})

	if len(result.Tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(result.Tasks))
	}
	byID := map[string]Task{}
	for _, task := range result.Tasks {
		byID[task.ID] = task
	}
	if p := byID["1"].Progress; p == nil || *p != 100 {
		t.Errorf("progress(150) = %v, want 100", p)
	}
	if p := byID["2"].Progress; p != nil {
		t.Errorf("progress(abc) = %v, want omitted", *p)
	}
	if p := byID["3"].Progress; p == nil || *p != 0 {
		t.Errorf("progress(-10) = %v, want 0", p)
	}
}

// Scenario: numeric id column with a float-rendered dependency cell still
// resolves (regression for the float/string id mismatch).
func TestTransformFloatStringDependencyMatch(t *testing.T) {
	mapping := baseMapping
	mapping.DependenciesColumn = "deps"
	one := row(tabular.Number(1), "2024-01-01", "2024-01-02")
	two := row(tabular.Number(2), "2024-01-02", "2024-01-03")
	three := row(tabular.Number(3), "2024-01-03", "2024-01-04")
	three["deps"] = tabular.Text("1.0, 2.0")

	result := transform(t, dataset(one, two, three), mapping, Options{})

	var deps []string
	for _, task := range result.Tasks {
		if task.ID == "3" {
			deps = task.Dependencies
		}
	}
	if len(deps) != 2 || deps[0] != "1" || deps[1] != "2" {
		t.Errorf("deps = %v, want [1 2]", deps)
	}
	if len(result.Metadata.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Metadata.Warnings)
	}
}

func TestTransformExpectedProgress(t *testing.T) {
	tr := NewTransformer(nil)
	tr.Now = fixedClock("2024-01-03")

	ds := dataset(
		row(tabular.Text("mid"), "2024-01-01", "2024-01-05"),
		row(tabular.Text("future"), "2024-02-01", "2024-02-05"),
		row(tabular.Text("past"), "2023-01-01", "2023-01-05"),
		row(tabular.Text("point"), "2024-01-03", "2024-01-03"),
	)
	result, err := tr.Transform(ds, baseMapping, Options{ShowExpectedProgress: true})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	byID := map[string]Task{}
	for _, task := range result.Tasks {
		byID[task.ID] = task
	}
	if p := byID["mid"].ExpectedProgress; p == nil || *p != 50 {
		t.Errorf("expected progress mid = %v, want 50", p)
	}
	if p := byID["future"].ExpectedProgress; p != nil {
		t.Errorf("expected progress future = %v, want omitted", *p)
	}
	if p := byID["past"].ExpectedProgress; p != nil {
		t.Errorf("expected progress past = %v, want omitted", *p)
	}
	if p := byID["point"].ExpectedProgress; p == nil || *p != 100 {
		t.Errorf("expected progress zero-duration = %v, want 100", p)
	}
}

func TestTransformColorMapping(t *testing.T) {
	mapping := baseMapping
	mapping.ColorColumn = "team"
	a := row(tabular.Text("a"), "2024-01-01", "2024-01-02")
	a["team"] = tabular.Text("ops")
	b := row(tabular.Text("b"), "2024-01-02", "2024-01-03")
	b["team"] = tabular.Text("dev")
	c := row(tabular.Text("c"), "2024-01-03", "2024-01-04")

	result := transform(t, dataset(a, b, c), mapping, Options{})

	if len(result.ColorMapping) != 2 {
		t.Fatalf("colorMapping = %v, want 2 entries", result.ColorMapping)
	}
	byID := map[string]Task{}
	for _, task := range result.Tasks {
		byID[task.ID] = task
	}
	if byID["a"].ColorClass != result.ColorMapping["ops"] {
		t.Errorf("task a class = %q, mapping %v", byID["a"].ColorClass, result.ColorMapping)
	}
	if byID["c"].ColorClass == "" || byID["c"].ColorClass == byID["a"].ColorClass {
		t.Errorf("null category should get the reserved default, got %q", byID["c"].ColorClass)
	}
}

func TestTransformCustomFields(t *testing.T) {
	mapping := baseMapping
	mapping.TooltipColumns = []string{"owner", "team"}
	r := row(tabular.Text("a"), "2024-01-01", "2024-01-02")
	r["owner"] = tabular.Text("casey")
	r["team"] = tabular.Number(7)

	result := transform(t, dataset(r), mapping, Options{})

	fields := result.Tasks[0].CustomFields
	if len(fields) != 2 {
		t.Fatalf("customFields = %v, want 2", fields)
	}
	if fields[0].Label != "owner" || fields[0].Value != "casey" {
		t.Errorf("field 0 = %+v", fields[0])
	}
	if fields[1].Label != "team" || fields[1].Value != "7" {
		t.Errorf("field 1 = %+v", fields[1])
	}
}

func TestTransformSortModes(t *testing.T) {
	short := row(tabular.Text("short"), "2024-01-03", "2024-01-04")
	long := row(tabular.Text("long"), "2024-01-01", "2024-01-09")
	mid := row(tabular.Text("mid"), "2024-01-02", "2024-01-05")

	tests := []struct {
		mode SortMode
		want []string
	}{
		{SortStartDate, []string{"long", "mid", "short"}},
		{SortEndDate, []string{"short", "mid", "long"}},
		{SortName, []string{"long", "mid", "short"}},
		{SortDuration, []string{"short", "mid", "long"}},
	}

	for _, tc := range tests {
		result := transform(t, dataset(short, long, mid), baseMapping, Options{SortBy: tc.mode})
		for i, want := range tc.want {
			if result.Tasks[i].ID != want {
				t.Errorf("%s: order = %v, want %v", tc.mode, taskIDs(result), tc.want)
				break
			}
		}
	}
}

func TestTransformTopologicalSort(t *testing.T) {
	mapping := baseMapping
	mapping.DependenciesColumn = "deps"
	a := row(tabular.Text("a"), "2024-01-05", "2024-01-06")
	b := row(tabular.Text("b"), "2024-01-01", "2024-01-02")
	b["deps"] = tabular.Text("a")
	c := row(tabular.Text("c"), "2024-01-02", "2024-01-03")
	c["deps"] = tabular.Text("b")

	result := transform(t, dataset(a, b, c), mapping, Options{SortBy: SortTopological})

	pos := map[string]int{}
	for i, task := range result.Tasks {
		pos[task.ID] = i
	}
	for _, task := range result.Tasks {
		for _, dep := range task.Dependencies {
			if pos[dep] >= pos[task.ID] {
				t.Errorf("dependency %q must precede %q in %v", dep, task.ID, taskIDs(result))
			}
		}
	}
}

func TestTransformGroupBy(t *testing.T) {
	mapping := baseMapping
	a := row(tabular.Text("a"), "2024-01-01", "2024-01-02")
	a["team"] = tabular.Text("ops")
	b := row(tabular.Text("b"), "2024-01-02", "2024-01-03")
	b["team"] = tabular.Text("dev")
	c := row(tabular.Text("c"), "2024-01-03", "2024-01-04")
	c["team"] = tabular.Text("ops")

	result := transform(t, dataset(a, b, c), mapping, Options{GroupBy: []string{"team"}})

	got := taskIDs(result)
	want := []string{"a", "c", "b"} // ops group first (first appearance), then dev
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTransformMaxTasks(t *testing.T) {
	ds := dataset(
		row(tabular.Text("a"), "2024-01-01", "2024-01-02"),
		row(tabular.Text("b"), "2024-01-02", "2024-01-03"),
		row(tabular.Text("c"), "2024-01-03", "2024-01-04"),
	)
	result := transform(t, ds, baseMapping, Options{MaxTasks: 2})

	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.Metadata.SkipReasons[SkipMaxTasksExceeded] != 1 {
		t.Errorf("skip reasons = %v, want max_tasks_exceeded=1", result.Metadata.SkipReasons)
	}
	if result.Metadata.SkippedRows != 1 {
		t.Errorf("skippedRows = %d, want 1", result.Metadata.SkippedRows)
	}
}

func TestTransformMaxTasksPrunesDependencies(t *testing.T) {
	mapping := baseMapping
	mapping.DependenciesColumn = "deps"
	a := row(tabular.Text("A"), "2024-01-01", "2024-01-02")
	a["deps"] = tabular.Text("C")
	b := row(tabular.Text("B"), "2024-01-02", "2024-01-03")
	c := row(tabular.Text("C"), "2024-01-03", "2024-01-04")

	// end_date order keeps A and B; C is truncated away, so A's reference
	// to it must not survive.
	result := transform(t, dataset(a, b, c), mapping, Options{SortBy: SortEndDate, MaxTasks: 2})

	if got := taskIDs(result); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("tasks = %v, want [A B]", got)
	}
	present := map[string]bool{}
	for _, task := range result.Tasks {
		present[task.ID] = true
	}
	for _, task := range result.Tasks {
		for _, dep := range task.Dependencies {
			if !present[dep] {
				t.Errorf("task %q depends on %q which is not in the output", task.ID, dep)
			}
		}
	}
	found := false
	for _, w := range result.Metadata.Warnings {
		if strings.Contains(w, `"A"`) && strings.Contains(w, `"C"`) && strings.Contains(w, "truncated") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want one naming the dropped A -> C reference", result.Metadata.Warnings)
	}
}

func TestTransformUniqueIDsInvariant(t *testing.T) {
	ds := dataset(
		row(tabular.Number(1), "2024-01-01", "2024-01-02"),
		row(tabular.Text("1"), "2024-01-02", "2024-01-03"),
		row(tabular.Text("1.0"), "2024-01-03", "2024-01-04"),
		row(tabular.Text("1_1"), "2024-01-04", "2024-01-05"),
	)
	result := transform(t, ds, baseMapping, Options{DuplicateIDPolicy: DuplicateRename})

	seen := map[string]bool{}
	for _, task := range result.Tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %q in output: %v", task.ID, taskIDs(result))
		}
		seen[task.ID] = true
	}
	if len(result.Tasks) != 4 {
		t.Errorf("tasks = %d, want 4", len(result.Tasks))
	}
}

func TestTransformPlaceholderID(t *testing.T) {
	ds := dataset(row(tabular.Null(), "2024-01-01", "2024-01-02"))
	result := transform(t, ds, baseMapping, Options{})

	if len(result.Tasks) != 1 || result.Tasks[0].ID != "task_0" {
		t.Fatalf("tasks = %+v, want placeholder id task_0", result.Tasks)
	}
}

func taskIDs(result *TransformResult) []string {
	ids := make([]string, len(result.Tasks))
	for i, task := range result.Tasks {
		ids[i] = task.ID
	}
	return ids
}
