package gantt

import (
	"fmt"
	"io"
	"math"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ganttd/ganttd/internal/colors"
	"github.com/ganttd/ganttd/internal/dates"
	"github.com/ganttd/ganttd/internal/depgraph"
	"github.com/ganttd/ganttd/internal/ident"
	"github.com/ganttd/ganttd/internal/tabular"
)

// Transformer drives the transformation pipeline. It holds no mutable
// state between calls; independent transformations are safe to run
// concurrently.
type Transformer struct {
	// Now supplies "today" for expected-progress computation. Injectable
	// so tests are deterministic.
	Now func() time.Time
	Log *log.Logger
}

// NewTransformer returns a transformer using the real clock. A nil logger
// discards output.
func NewTransformer(logger *log.Logger) *Transformer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Transformer{Now: time.Now, Log: logger}
}

// record carries an admitted row through the later pipeline stages.
type record struct {
	task     Task
	row      tabular.Row
	start    time.Time
	end      time.Time
	category *string
	deps     tabular.Value
}

// Transform runs the full pipeline: admission, duplicate policy,
// progress derivation, dependency repair, color assignment, sorting,
// grouping and truncation. Row-level defects are recovered locally as skip
// reasons and warnings; only request-level defects return a *RequestError.
//
// An empty dataset yields an empty result, not an error; the caller
// decides how to surface it (see TransformResult.RequestError).
func (t *Transformer) Transform(ds *tabular.Dataset, mapping ColumnMapping, opts Options) (result *TransformResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			// Stack traces stay in the server-side log, never in the response.
			t.Log.Error("transformation panicked", "panic", r, "stack", string(debug.Stack()))
			result = nil
			err = NewRequestError(ErrInternal, "internal error during transformation", nil)
		}
	}()

	if ds == nil {
		return nil, NewRequestError(ErrDatasetNotSpecified, "no dataset was provided", nil)
	}
	opts = opts.withDefaults()
	if verr := opts.validate(); verr != nil {
		return nil, verr
	}
	if verr := validateMapping(mapping); verr != nil {
		return nil, verr
	}

	result = &TransformResult{
		Tasks: []Task{},
		Metadata: Metadata{
			TotalRows:   len(ds.Rows),
			SkipReasons: map[string]int{},
			Warnings:    []string{},
		},
		ColorMapping: map[string]string{},
	}
	if len(ds.Rows) == 0 {
		return result, nil
	}

	if verr := checkColumns(ds, mapping, opts); verr != nil {
		return nil, verr
	}

	skip := func(row int, reason string) {
		result.Metadata.SkipReasons[reason]++
		t.Log.Debug("row skipped", "row", row, "reason", reason)
	}

	// Admission: normalize ids, names and dates row by row, in input order.
	records := make([]*record, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		rec, reason := t.admitRow(i, row, mapping, opts)
		if reason != "" {
			skip(i, reason)
			continue
		}
		records = append(records, rec)
	}

	records = t.applyDuplicatePolicy(records, opts, result, skip)
	t.resolveDependencies(records, mapping, result)
	t.assignColors(records, mapping, result)

	sortRecords(records, opts.SortBy)
	if len(opts.GroupBy) > 0 {
		records = groupRecords(records, opts.GroupBy)
	}

	if opts.MaxTasks > 0 && len(records) > opts.MaxTasks {
		over := len(records) - opts.MaxTasks
		result.Metadata.SkipReasons[SkipMaxTasksExceeded] += over
		records = records[:opts.MaxTasks]
		pruneTruncatedDependencies(records, result)
	}

	for _, rec := range records {
		result.Tasks = append(result.Tasks, rec.task)
	}
	result.Metadata.DisplayedRows = len(result.Tasks)
	result.Metadata.SkippedRows = result.Metadata.TotalRows - result.Metadata.DisplayedRows

	t.Log.Info("transformation complete",
		"total", result.Metadata.TotalRows,
		"displayed", result.Metadata.DisplayedRows,
		"skipped", result.Metadata.SkippedRows,
		"warnings", len(result.Metadata.Warnings))
	return result, nil
}

func validateMapping(mapping ColumnMapping) *RequestError {
	required := []struct{ role, name string }{
		{"idColumn", mapping.IDColumn},
		{"startColumn", mapping.StartColumn},
		{"endColumn", mapping.EndColumn},
	}
	for _, r := range required {
		if strings.TrimSpace(r.name) == "" {
			return NewRequestError(ErrInvalidConfiguration,
				fmt.Sprintf("column mapping is missing %s", r.role),
				map[string]any{"option": r.role})
		}
	}
	return nil
}

func checkColumns(ds *tabular.Dataset, mapping ColumnMapping, opts Options) *RequestError {
	var names []string
	names = append(names, mapping.IDColumn, mapping.StartColumn, mapping.EndColumn)
	for _, opt := range []string{mapping.NameColumn, mapping.ProgressColumn,
		mapping.DependenciesColumn, mapping.ColorColumn} {
		if opt != "" {
			names = append(names, opt)
		}
	}
	names = append(names, mapping.TooltipColumns...)
	names = append(names, opts.GroupBy...)

	for _, name := range names {
		if !ds.HasColumn(name) {
			return NewRequestError(ErrColumnNotFound,
				fmt.Sprintf("column %q does not exist in the dataset", name),
				map[string]any{"column": name})
		}
	}
	return nil
}

// admitRow builds the task for one row, or returns the skip reason that
// excludes it.
func (t *Transformer) admitRow(index int, row tabular.Row, mapping ColumnMapping, opts Options) (*record, string) {
	id, ok := ident.Normalize(row.Get(mapping.IDColumn))
	if !ok {
		id = ident.Placeholder(index)
	}

	startVal := row.Get(mapping.StartColumn)
	endVal := row.Get(mapping.EndColumn)
	if startVal.IsNull() || endVal.IsNull() {
		return nil, SkipMissingRequiredField
	}

	start, perr := dates.Normalize(startVal, dates.RoleStart)
	if perr != nil {
		return nil, SkipInvalidStartDate
	}
	end, perr := dates.Normalize(endVal, dates.RoleEnd)
	if perr != nil {
		return nil, SkipInvalidEndDate
	}
	// Canonical dates compare lexicographically. Equal start and end is a
	// valid zero-duration task.
	if start > end {
		return nil, SkipStartAfterEnd
	}

	name := id
	if mapping.NameColumn != "" {
		if n := strings.TrimSpace(row.Get(mapping.NameColumn).Display()); n != "" {
			name = n
		}
	}

	rec := &record{
		task: Task{ID: id, Name: name, Start: start, End: end},
		row:  row,
	}
	rec.start, _ = time.Parse(dates.Layout, start)
	rec.end, _ = time.Parse(dates.Layout, end)

	if mapping.ProgressColumn != "" {
		rec.task.Progress = parseProgress(row.Get(mapping.ProgressColumn))
	}
	if opts.ShowExpectedProgress {
		rec.task.ExpectedProgress = t.expectedProgress(rec.start, rec.end)
	}
	if mapping.DependenciesColumn != "" {
		rec.deps = row.Get(mapping.DependenciesColumn)
	}
	if mapping.ColorColumn != "" {
		if v := row.Get(mapping.ColorColumn); !v.IsNull() {
			category := v.Display()
			rec.category = &category
		}
	}
	for _, col := range mapping.TooltipColumns {
		rec.task.CustomFields = append(rec.task.CustomFields, CustomField{
			Label: col,
			Value: row.Get(col).Display(),
		})
	}
	return rec, ""
}

// parseProgress clamps numeric progress into [0,100]. A present but
// non-numeric value omits the field rather than skipping the row.
func parseProgress(v tabular.Value) *int {
	var f float64
	switch v.Kind {
	case tabular.KindNumber:
		f = v.Num
	case tabular.KindText:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}
	p := int(math.Round(f))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}

// expectedProgress linearly interpolates how complete a task "should" be
// today. Emitted only while today falls inside the task's date window;
// zero-duration tasks inside the window count as fully expected.
func (t *Transformer) expectedProgress(start, end time.Time) *int {
	now := t.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if today.Before(start) || today.After(end) {
		return nil
	}
	p := 100
	if span := end.Sub(start); span > 0 {
		p = int(math.Round(float64(today.Sub(start)) / float64(span) * 100))
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}

// applyDuplicatePolicy enforces id uniqueness across admitted rows, in row
// order.
func (t *Transformer) applyDuplicatePolicy(records []*record, opts Options, result *TransformResult, skip func(int, string)) []*record {
	used := make(map[string]bool, len(records))
	renamed := make(map[string]int)
	var renameOrder []string

	kept := records[:0]
	for i, rec := range records {
		id := rec.task.ID
		if !used[id] {
			used[id] = true
			kept = append(kept, rec)
			continue
		}
		if opts.DuplicateIDPolicy == DuplicateSkip {
			skip(i, SkipDuplicateID)
			continue
		}
		// Rename: find the next free _n suffix for this id.
		n := renamed[id] + 1
		candidate := fmt.Sprintf("%s_%d", id, n)
		for used[candidate] {
			n++
			candidate = fmt.Sprintf("%s_%d", id, n)
		}
		if renamed[id] == 0 {
			renameOrder = append(renameOrder, id)
		}
		renamed[id] = n
		rec.task.ID = candidate
		used[candidate] = true
		kept = append(kept, rec)
	}

	for _, id := range renameOrder {
		result.Metadata.Warnings = append(result.Metadata.Warnings, fmt.Sprintf(
			"duplicate id %q: renamed %d row(s)", id, renamed[id]))
	}
	return kept
}

// resolveDependencies cleans dependency references against the final id set
// and attaches the repaired lists.
func (t *Transformer) resolveDependencies(records []*record, mapping ColumnMapping, result *TransformResult) {
	if mapping.DependenciesColumn == "" {
		return
	}
	known := make(map[string]bool, len(records))
	for _, rec := range records {
		known[rec.task.ID] = true
	}
	declared := make([]depgraph.Declared, 0, len(records))
	for _, rec := range records {
		declared = append(declared, depgraph.Declared{
			From:   rec.task.ID,
			Tokens: ident.SplitList(rec.deps),
		})
	}

	res := depgraph.Resolve(declared, known)
	result.Metadata.Warnings = append(result.Metadata.Warnings, res.Warnings...)
	for _, rec := range records {
		rec.task.Dependencies = res.Deps[rec.task.ID]
	}
}

// pruneTruncatedDependencies re-establishes dependency closure after
// maxTasks truncation: a surviving task may reference an id that was cut,
// so references outside the surviving set are dropped with a warning.
func pruneTruncatedDependencies(records []*record, result *TransformResult) {
	surviving := make(map[string]bool, len(records))
	for _, rec := range records {
		surviving[rec.task.ID] = true
	}
	for _, rec := range records {
		if len(rec.task.Dependencies) == 0 {
			continue
		}
		kept := rec.task.Dependencies[:0]
		for _, dep := range rec.task.Dependencies {
			if surviving[dep] {
				kept = append(kept, dep)
				continue
			}
			result.Metadata.Warnings = append(result.Metadata.Warnings, fmt.Sprintf(
				"task %q depends on task %q which was truncated by maxTasks; dependency dropped",
				rec.task.ID, dep))
		}
		rec.task.Dependencies = kept
	}
}

// assignColors builds the category palette over admitted rows and attaches
// a class per task.
func (t *Transformer) assignColors(records []*record, mapping ColumnMapping, result *TransformResult) {
	if mapping.ColorColumn == "" {
		return
	}
	values := make([]*string, 0, len(records))
	for _, rec := range records {
		values = append(values, rec.category)
	}
	mappingByValue := colors.BuildMapping(values)
	for _, rec := range records {
		rec.task.ColorClass = colors.ClassFor(mappingByValue, rec.category)
	}
	result.ColorMapping = mappingByValue
}

func sortRecords(records []*record, mode SortMode) {
	byStartThenID := func(a, b *record) bool {
		if a.task.Start != b.task.Start {
			return a.task.Start < b.task.Start
		}
		return a.task.ID < b.task.ID
	}

	switch mode {
	case SortStartDate:
		sort.SliceStable(records, func(i, j int) bool {
			return byStartThenID(records[i], records[j])
		})
	case SortEndDate:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].task.End != records[j].task.End {
				return records[i].task.End < records[j].task.End
			}
			return records[i].task.ID < records[j].task.ID
		})
	case SortName:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].task.Name != records[j].task.Name {
				return records[i].task.Name < records[j].task.Name
			}
			return records[i].task.ID < records[j].task.ID
		})
	case SortDuration:
		sort.SliceStable(records, func(i, j int) bool {
			di := records[i].end.Sub(records[i].start)
			dj := records[j].end.Sub(records[j].start)
			if di != dj {
				return di < dj
			}
			return records[i].task.ID < records[j].task.ID
		})
	case SortDependencyCount:
		sort.SliceStable(records, func(i, j int) bool {
			ci := len(records[i].task.Dependencies)
			cj := len(records[j].task.Dependencies)
			if ci != cj {
				return ci < cj
			}
			return records[i].task.ID < records[j].task.ID
		})
	case SortTopological:
		byID := make(map[string]*record, len(records))
		ids := make([]string, 0, len(records))
		deps := make(map[string][]string, len(records))
		for _, rec := range records {
			byID[rec.task.ID] = rec
			ids = append(ids, rec.task.ID)
			deps[rec.task.ID] = rec.task.Dependencies
		}
		ordered := depgraph.TopoOrder(ids, deps, func(a, b string) bool {
			return byStartThenID(byID[a], byID[b])
		})
		for i, id := range ordered {
			records[i] = byID[id]
		}
	}
}

// groupRecords stably partitions sorted records by the joined values of the
// group columns, groups ordered by first appearance.
func groupRecords(records []*record, groupBy []string) []*record {
	keyOf := func(rec *record) string {
		parts := make([]string, len(groupBy))
		for i, col := range groupBy {
			parts[i] = rec.row.Get(col).Display()
		}
		return strings.Join(parts, "\x00")
	}

	var orderedKeys []string
	grouped := make(map[string][]*record)
	for _, rec := range records {
		key := keyOf(rec)
		if _, ok := grouped[key]; !ok {
			orderedKeys = append(orderedKeys, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	out := make([]*record, 0, len(records))
	for _, key := range orderedKeys {
		out = append(out, grouped[key]...)
	}
	return out
}
