// Package task holds the in-memory task model and the operations the CLI
// applies to a loaded collection.
package task

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DateLayout is the on-disk form of a due date.
const DateLayout = "2006-01-02"

// MinUIDPrefix is the shortest uid prefix accepted as a task selector.
const MinUIDPrefix = 4

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	timeNow     = time.Now
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// Task is one to-do item. ID is the short, human-facing number; it can repeat
// across time once tasks are removed. UID is a ULID fixed at creation and never
// reused, so a uid prefix always names the same task.
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Done        bool     `json:"done" yaml:"done"`
	Priority    Priority `json:"priority" yaml:"priority"`
	DueDate     string   `json:"due_date" yaml:"due_date"`
	UID         string   `json:"uid,omitempty" yaml:"uid,omitempty"`
}

// Collection is the ordered task list; file order is insertion order.
type Collection []Task

// Today returns the current local calendar date.
func Today() string {
	return timeNow().Local().Format(DateLayout)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Add appends a new pending task and returns it. An empty dueDate means today.
func (c *Collection) Add(description string, p Priority, dueDate string) Task {
	if dueDate == "" {
		dueDate = Today()
	}
	t := Task{
		ID:          c.nextID(),
		Description: description,
		Priority:    p,
		DueDate:     dueDate,
		UID:         newULID(),
	}
	*c = append(*c, t)
	return t
}

// nextID is len+1, bumped past the highest id when a removal left len+1 taken.
func (c Collection) nextID() int {
	id := len(c) + 1
	if c.index(id) < 0 {
		return id
	}
	highest := 0
	for _, t := range c {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

func (c Collection) index(id int) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// IsUIDPrefix reports whether s could select a task by uid. Plain numbers are
// always ids, never uid prefixes.
func IsUIDPrefix(s string) bool {
	if len(s) < MinUIDPrefix || len(s) > ulid.EncodedSize {
		return false
	}
	digits := true
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune(ulid.Encoding, r) {
			return false
		}
		if r < '0' || r > '9' {
			digits = false
		}
	}
	return !digits
}

// MatchUID returns the position of the single task whose uid starts with
// prefix, ignoring case.
func (c Collection) MatchUID(prefix string) (int, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return -1, ErrNotFound
	}
	hit := -1
	for i := range c {
		if c[i].UID == "" || !strings.HasPrefix(strings.ToUpper(c[i].UID), prefix) {
			continue
		}
		if hit >= 0 {
			return -1, fmt.Errorf("%w: uid prefix %q matches more than one task", ErrConflict, prefix)
		}
		hit = i
	}
	if hit < 0 {
		return -1, ErrNotFound
	}
	return hit, nil
}

// MarkDone flags the first task with id as done. It reports whether one was found.
func (c Collection) MarkDone(id int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.MarkDoneAt(i)
	return true
}

// MarkDoneAt flags the task at position i as done.
func (c Collection) MarkDoneAt(i int) {
	c[i].Done = true
}

// Remove deletes the first task with id, keeping the others in order.
func (c *Collection) Remove(id int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.RemoveAt(i)
	return true
}

// RemoveAt deletes the task at position i, keeping the others in order.
func (c *Collection) RemoveAt(i int) {
	*c = append((*c)[:i], (*c)[i+1:]...)
}

// Filter returns the tasks matching status ("done" or "pending"). Any other
// status keeps everything.
func (c Collection) Filter(status string) Collection {
	if status != "done" && status != "pending" {
		return c
	}
	wantDone := status == "done"
	out := make(Collection, 0, len(c))
	for _, t := range c {
		if t.Done == wantDone {
			out = append(out, t)
		}
	}
	return out
}

func newULID() string {
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return id.String()
}
