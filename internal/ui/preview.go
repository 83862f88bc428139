// Package ui provides a terminal preview of transformed timelines.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ganttd/ganttd/internal/dates"
	"github.com/ganttd/ganttd/internal/gantt"
)

// LoadFunc produces a fresh transformation result, used on startup and
// when the user presses r.
type LoadFunc func() (*gantt.TransformResult, error)

// RunPreview starts the preview TUI.
func RunPreview(ctx context.Context, load LoadFunc) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("preview requires a TTY")
	}
	model := newPreviewModel(load)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Display orderings the s key cycles through. "pipeline" keeps the order
// the transformation produced.
const (
	orderPipeline = iota
	orderName
	orderStart
	orderCount
)

type previewModel struct {
	load     LoadFunc
	result   *gantt.TransformResult
	tasks    []gantt.Task
	ordering int
	loadErr  error
	offset   int
	width    int
	height   int
	showHelp bool

	// chart bounds, derived from the loaded tasks
	minStart time.Time
	maxEnd   time.Time
}

func newPreviewModel(load LoadFunc) *previewModel {
	m := &previewModel{load: load, width: 80, height: 24}
	m.refresh()
	return m
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "s":
			m.ordering = (m.ordering + 1) % orderCount
			m.applyOrdering()
			m.offset = 0
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
			return m, nil
		case "down", "j":
			if m.offset < m.maxOffset() {
				m.offset++
			}
			return m, nil
		case "g", "home":
			m.offset = 0
			return m, nil
		case "G", "end":
			m.offset = m.maxOffset()
			return m, nil
		}
	}
	return m, nil
}

func (m *previewModel) refresh() {
	result, err := m.load()
	if err != nil {
		m.loadErr = err
		m.result = nil
		return
	}
	m.loadErr = nil
	m.result = result
	m.offset = 0
	m.applyOrdering()
	m.computeBounds()
}

// applyOrdering rebuilds the display slice from the loaded result.
func (m *previewModel) applyOrdering() {
	if m.result == nil {
		m.tasks = nil
		return
	}
	m.tasks = append([]gantt.Task(nil), m.result.Tasks...)
	switch m.ordering {
	case orderName:
		sort.SliceStable(m.tasks, func(i, j int) bool { return m.tasks[i].Name < m.tasks[j].Name })
	case orderStart:
		sort.SliceStable(m.tasks, func(i, j int) bool { return m.tasks[i].Start < m.tasks[j].Start })
	}
}

func (m *previewModel) orderingLabel() string {
	switch m.ordering {
	case orderName:
		return "name"
	case orderStart:
		return "start"
	default:
		return "pipeline"
	}
}

func (m *previewModel) computeBounds() {
	m.minStart, m.maxEnd = time.Time{}, time.Time{}
	if m.result == nil {
		return
	}
	for _, task := range m.result.Tasks {
		start, err := time.Parse(dates.Layout, task.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(dates.Layout, task.End)
		if err != nil {
			continue
		}
		if m.minStart.IsZero() || start.Before(m.minStart) {
			m.minStart = start
		}
		if m.maxEnd.IsZero() || end.After(m.maxEnd) {
			m.maxEnd = end
		}
	}
}

func (m *previewModel) visibleRows() int {
	// title + axis + footer take fixed lines
	rows := m.height - 7
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *previewModel) maxOffset() int {
	if m.result == nil {
		return 0
	}
	max := len(m.tasks) - m.visibleRows()
	if max < 0 {
		return 0
	}
	return max
}

func (m *previewModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}
	if m.result == nil || len(m.tasks) == 0 {
		b.WriteString("No tasks to display.\n\n")
		writeFooter(&b)
		return b.String()
	}

	m.writeChart(&b)
	m.writeSummary(&b)
	writeFooter(&b)
	return b.String()
}

const labelWidth = 22

func (m *previewModel) writeChart(b *strings.Builder) {
	span := m.maxEnd.Sub(m.minStart)
	chartWidth := m.width - labelWidth - 2
	if chartWidth < 10 {
		chartWidth = 10
	}

	b.WriteString(fmt.Sprintf("%-*s %s .. %s\n\n", labelWidth, "Task",
		m.minStart.Format(dates.Layout), m.maxEnd.Format(dates.Layout)))

	tasks := m.tasks
	end := m.offset + m.visibleRows()
	if end > len(tasks) {
		end = len(tasks)
	}
	for _, task := range tasks[m.offset:end] {
		b.WriteString(fmt.Sprintf("%-*s %s\n", labelWidth,
			truncate(task.Name, labelWidth), m.bar(task, span, chartWidth)))
	}
	b.WriteString("\n")
}

// bar renders one task as a positioned run of # characters, scaled to the
// full date span of the result.
func (m *previewModel) bar(task gantt.Task, span time.Duration, width int) string {
	start, err := time.Parse(dates.Layout, task.Start)
	if err != nil {
		return ""
	}
	end, err := time.Parse(dates.Layout, task.End)
	if err != nil {
		return ""
	}

	lead, length := 0, width
	if span > 0 {
		lead = int(float64(start.Sub(m.minStart)) / float64(span) * float64(width))
		length = int(float64(end.Sub(start))/float64(span)*float64(width)) + 1
	}
	if lead >= width {
		lead = width - 1
	}
	if lead+length > width {
		length = width - lead
	}
	if length < 1 {
		length = 1
	}

	bar := strings.Repeat(" ", lead) + strings.Repeat("#", length)
	if task.Progress != nil {
		bar += fmt.Sprintf(" %d%%", *task.Progress)
	}
	return bar
}

func (m *previewModel) writeSummary(b *strings.Builder) {
	meta := m.result.Metadata
	b.WriteString(fmt.Sprintf("Tasks: %d  Skipped: %d  Warnings: %d  Sort: %s",
		meta.DisplayedRows, meta.SkippedRows, len(meta.Warnings), m.orderingLabel()))
	if m.maxOffset() > 0 {
		b.WriteString(fmt.Sprintf("  [%d-%d of %d]",
			m.offset+1, min(m.offset+m.visibleRows(), len(m.tasks)), len(m.tasks)))
	}
	b.WriteString("\n")
}

func writeTitle(b *strings.Builder) {
	title := "ganttd preview"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Reload input\n")
	b.WriteString("  s            Cycle display order (pipeline / name / start)\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  up/k down/j  Scroll\n")
	b.WriteString("  g / G        Jump to top / bottom\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | q to quit\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
