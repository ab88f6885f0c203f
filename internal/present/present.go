// Package present formats task listings and command outcomes for the terminal.
package present

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/todo/internal/task"
)

const (
	colorGreen  = lipgloss.Color("2")
	colorRed    = lipgloss.Color("1")
	colorYellow = lipgloss.Color("3")
	colorBlue   = lipgloss.Color("4")
)

// uidWidth is how much of a task's uid listings show.
const uidWidth = 10

// Presenter writes styled lines to w. Styling is dropped when w is not a terminal.
type Presenter struct {
	w       io.Writer
	showUID bool
	green   lipgloss.Style
	red     lipgloss.Style
	yellow  lipgloss.Style
	blue    lipgloss.Style
	faint   lipgloss.Style
}

func New(w io.Writer) *Presenter {
	return newWithRenderer(w, lipgloss.NewRenderer(w))
}

func newWithRenderer(w io.Writer, r *lipgloss.Renderer) *Presenter {
	return &Presenter{
		w:      w,
		green:  r.NewStyle().Foreground(colorGreen),
		red:    r.NewStyle().Foreground(colorRed),
		yellow: r.NewStyle().Foreground(colorYellow),
		blue:   r.NewStyle().Foreground(colorBlue),
		faint:  r.NewStyle().Faint(true),
	}
}

// WithUID makes task lines end with the leading part of each task's uid.
func (p *Presenter) WithUID() *Presenter {
	p.showUID = true
	return p
}

func (p *Presenter) line(s lipgloss.Style, msg string) {
	fmt.Fprintln(p.w, s.Render(msg))
}

func (p *Presenter) Added()      { p.line(p.green, "Task added successfully!") }
func (p *Presenter) MarkedDone() { p.line(p.green, "Task marked as done!") }
func (p *Presenter) Removed()    { p.line(p.green, "Task removed successfully!") }
func (p *Presenter) NotFound()   { p.line(p.red, "Task not found.") }
func (p *Presenter) NoTasks()    { p.line(p.yellow, "No tasks found.") }

// InvalidPriority warns that an unrecognized priority was replaced by Medium.
func (p *Presenter) InvalidPriority() {
	p.line(p.yellow, "Invalid priority! Defaulting to Medium.")
}

func (p *Presenter) priorityLabel(pr task.Priority) string {
	switch pr {
	case task.Low:
		return p.blue.Render(pr.String())
	case task.High:
		return p.red.Render(pr.String())
	default:
		return p.yellow.Render(pr.String())
	}
}

func (p *Presenter) marker(done bool) string {
	if done {
		return p.green.Render("✓")
	}
	return p.red.Render("✗")
}

// TaskLine renders one listing row.
func (p *Presenter) TaskLine(t task.Task) string {
	line := fmt.Sprintf("[%s] %d - %s (Due: %s) - Priority: %s",
		p.marker(t.Done), t.ID, t.Description, t.DueDate, p.priorityLabel(t.Priority))
	if p.showUID && t.UID != "" {
		uid := t.UID
		if len(uid) > uidWidth {
			uid = uid[:uidWidth]
		}
		line += " " + p.faint.Render("<"+uid+">")
	}
	return line
}

// List writes one line per task, in order.
func (p *Presenter) List(tasks task.Collection) {
	for _, t := range tasks {
		fmt.Fprintln(p.w, p.TaskLine(t))
	}
}
