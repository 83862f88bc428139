// Package gantt transforms tabular task datasets into validated,
// render-ready task lists for timeline visualization.
package gantt

import "fmt"

// Task is the canonical output unit: one bar on the timeline. Tasks are
// constructed once per admitted row and never mutated afterwards; derived
// fields are filled in before the task is considered final.
type Task struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Start            string        `json:"start"`
	End              string        `json:"end"`
	Progress         *int          `json:"progress,omitempty"`
	Dependencies     []string      `json:"dependencies,omitempty"`
	ExpectedProgress *int          `json:"expected_progress,omitempty"`
	ColorClass       string        `json:"colorClass,omitempty"`
	CustomFields     []CustomField `json:"customFields,omitempty"`
}

// CustomField is one label/value pair shown in the task tooltip. Values are
// copied verbatim; escaping happens at render time.
type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ColumnMapping names the dataset columns feeding each task attribute.
// Only the id, start and end columns are required.
type ColumnMapping struct {
	IDColumn           string   `json:"idColumn"`
	NameColumn         string   `json:"nameColumn,omitempty"`
	StartColumn        string   `json:"startColumn"`
	EndColumn          string   `json:"endColumn"`
	ProgressColumn     string   `json:"progressColumn,omitempty"`
	DependenciesColumn string   `json:"dependenciesColumn,omitempty"`
	ColorColumn        string   `json:"colorColumn,omitempty"`
	TooltipColumns     []string `json:"tooltipColumns,omitempty"`
}

// DuplicatePolicy selects what happens when two rows normalize to the same id.
type DuplicatePolicy string

const (
	// DuplicateRename appends _1, _2, ... to later duplicates, in row order.
	DuplicateRename DuplicatePolicy = "rename"
	// DuplicateSkip drops every row after the first with a given id.
	DuplicateSkip DuplicatePolicy = "skip"
)

// SortMode selects the output ordering.
type SortMode string

const (
	SortStartDate       SortMode = "start_date"
	SortEndDate         SortMode = "end_date"
	SortName            SortMode = "name"
	SortDuration        SortMode = "duration"
	SortDependencyCount SortMode = "dependency_count"
	SortTopological     SortMode = "topological"
)

// Options controls transformation behavior.
type Options struct {
	DuplicateIDPolicy    DuplicatePolicy `json:"duplicateIdPolicy,omitempty"`
	MaxTasks             int             `json:"maxTasks,omitempty"`
	SortBy               SortMode        `json:"sortBy,omitempty"`
	GroupBy              []string        `json:"groupBy,omitempty"`
	ShowExpectedProgress bool            `json:"showExpectedProgress,omitempty"`
}

// withDefaults fills unset enum fields with their defaults.
func (o Options) withDefaults() Options {
	if o.DuplicateIDPolicy == "" {
		o.DuplicateIDPolicy = DuplicateRename
	}
	if o.SortBy == "" {
		o.SortBy = SortStartDate
	}
	return o
}

// validate rejects unknown enum values.
func (o Options) validate() *RequestError {
	switch o.DuplicateIDPolicy {
	case DuplicateRename, DuplicateSkip:
	default:
		return NewRequestError(ErrInvalidConfiguration,
			fmt.Sprintf("unknown duplicate id policy %q", o.DuplicateIDPolicy),
			map[string]any{"option": "duplicateIdPolicy"})
	}
	switch o.SortBy {
	case SortStartDate, SortEndDate, SortName, SortDuration, SortDependencyCount, SortTopological:
	default:
		return NewRequestError(ErrInvalidConfiguration,
			fmt.Sprintf("unknown sort mode %q", o.SortBy),
			map[string]any{"option": "sortBy"})
	}
	if o.MaxTasks < 0 {
		return NewRequestError(ErrInvalidConfiguration,
			"maxTasks must not be negative",
			map[string]any{"option": "maxTasks"})
	}
	return nil
}

// Skip reason tags. Aggregated as counts, never per-row detail, to keep
// metadata small.
const (
	SkipInvalidStartDate     = "invalid_start_date"
	SkipInvalidEndDate       = "invalid_end_date"
	SkipStartAfterEnd        = "start_after_end"
	SkipMissingRequiredField = "missing_required_field"
	SkipDuplicateID          = "duplicate_id"
	SkipMaxTasksExceeded     = "max_tasks_exceeded"
)

// Metadata summarizes what happened to the input rows.
type Metadata struct {
	TotalRows     int            `json:"totalRows"`
	DisplayedRows int            `json:"displayedRows"`
	SkippedRows   int            `json:"skippedRows"`
	SkipReasons   map[string]int `json:"skipReasons"`
	Warnings      []string       `json:"warnings"`
}

// TransformResult is the full transformation output. Dependencies always
// serialize as an array of strings, never a delimited single string.
type TransformResult struct {
	Tasks        []Task            `json:"tasks"`
	Metadata     Metadata          `json:"metadata"`
	ColorMapping map[string]string `json:"colorMapping"`
}

// RequestError converts a degenerate result into the request-level error
// the caller should surface: EMPTY_DATASET when there was nothing to
// transform, NO_VALID_TASKS when every row was rejected. Returns nil when
// the result is renderable.
func (r *TransformResult) RequestError() *RequestError {
	if r.Metadata.TotalRows == 0 {
		return NewRequestError(ErrEmptyDataset, "the dataset contains no rows", nil)
	}
	if len(r.Tasks) == 0 {
		return NewRequestError(ErrNoValidTasks,
			"no task rows survived validation",
			map[string]any{"skipReasons": r.Metadata.SkipReasons})
	}
	return nil
}
