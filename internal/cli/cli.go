package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/todo/internal/present"
	"github.com/amirbrooks/todo/internal/store"
	"github.com/amirbrooks/todo/internal/task"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitConflict = 4
	ExitInternal = 10
)

var ErrUsage = errors.New("usage")

// saveError marks a failed write; it is fatal for the invocation.
type saveError struct{ err error }

func (e *saveError) Error() string { return "save: " + e.err.Error() }
func (e *saveError) Unwrap() error { return e.err }

type GlobalFlags struct {
	File string
}

type env struct {
	gf  *GlobalFlags
	out io.Writer
}

func (e *env) store() *store.Store { return store.New(e.gf.File) }

func (e *env) presenter() *present.Presenter { return present.New(e.out) }

func (e *env) save(s *store.Store, c task.Collection) error {
	if err := s.Save(c); err != nil {
		return &saveError{err: err}
	}
	return nil
}

func Run(args []string) int {
	return RunWith(args, os.Stdout, os.Stderr)
}

// RunWith executes one invocation with explicit output streams and returns
// the process exit code.
func RunWith(args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	if len(args) == 0 {
		_ = root.Help()
		return ExitUsage
	}
	root.SetArgs(args)
	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitOK
	}
	var se *saveError
	if errors.As(err, &se) {
		fmt.Fprintln(errOut, "todo:", err)
		return ExitInternal
	}
	if errors.Is(err, task.ErrConflict) {
		fmt.Fprintln(errOut, "todo:", err)
		return ExitConflict
	}
	if cmd == nil {
		cmd = root
	}
	fmt.Fprintln(errOut, "todo:", err)
	fmt.Fprint(errOut, cmd.UsageString())
	return ExitUsage
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	gf := &GlobalFlags{}
	e := &env{gf: gf, out: out}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Personal task tracker",
		Long:          "todo keeps a prioritized task list in a single local file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%w: command required", ErrUsage)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&gf.File, "file", store.DefaultPath, "Task file (.json, or .yaml/.yml)")

	root.AddCommand(
		newAddCmd(e),
		newListCmd(e),
		newDoneCmd(e),
		newRemoveCmd(e),
	)
	return root
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <description> <priority> [due_date]",
		Short: "Add a new task with a priority and optional due date",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := args[0]
			if strings.TrimSpace(description) == "" {
				return fmt.Errorf("%w: description is required", ErrUsage)
			}
			due := ""
			if len(args) == 3 {
				due = strings.TrimSpace(args[2])
				if !task.ValidDate(due) {
					return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrUsage, args[2])
				}
			}
			p := e.presenter()
			priority, ok := task.ParsePriority(args[1])
			if !ok {
				p.InvalidPriority()
			}

			s := e.store()
			tasks := s.Load()
			tasks.Add(description, priority, due)
			if err := e.save(s, tasks); err != nil {
				return err
			}
			p.Added()
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	var status string
	var showUID bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks (optionally filter by 'done' or 'pending')",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := e.presenter()
			if showUID {
				p.WithUID()
			}
			tasks := e.store().Load()
			if len(tasks) == 0 {
				p.NoTasks()
				return nil
			}
			p.List(tasks.Filter(status))
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter (done|pending)")
	cmd.Flags().BoolVar(&showUID, "uid", false, "Show each task's uid prefix")
	return cmd
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id|uid-prefix>",
		Short: "Mark a task as done by ID or uid prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelector(args[0])
			if err != nil {
				return err
			}
			p := e.presenter()
			s := e.store()
			tasks := s.Load()
			i, err := sel.find(tasks)
			if errors.Is(err, task.ErrNotFound) {
				p.NotFound()
				return nil
			}
			if err != nil {
				return fmt.Errorf("done: %w", err)
			}
			tasks.MarkDoneAt(i)
			if err := e.save(s, tasks); err != nil {
				return err
			}
			p.MarkedDone()
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|uid-prefix>",
		Aliases: []string{"rm"},
		Short:   "Remove a task by ID or uid prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSelector(args[0])
			if err != nil {
				return err
			}
			p := e.presenter()
			s := e.store()
			tasks := s.Load()
			i, err := sel.find(tasks)
			if errors.Is(err, task.ErrNotFound) {
				p.NotFound()
				return nil
			}
			if err != nil {
				return fmt.Errorf("remove: %w", err)
			}
			tasks.RemoveAt(i)
			if err := e.save(s, tasks); err != nil {
				return err
			}
			p.Removed()
			return nil
		},
	}
}

// selector names a task either by its numeric id or by a uid prefix.
type selector struct {
	id  int
	uid string
}

func parseSelector(s string) (selector, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if id < 1 {
			return selector{}, fmt.Errorf("%w: id must be a positive integer, got %q", ErrUsage, s)
		}
		return selector{id: id}, nil
	}
	if task.IsUIDPrefix(s) {
		return selector{uid: s}, nil
	}
	return selector{}, fmt.Errorf("%w: expected a positive integer id or a uid prefix of at least %d characters, got %q",
		ErrUsage, task.MinUIDPrefix, s)
}

// find returns the position of the selected task in c.
func (sel selector) find(c task.Collection) (int, error) {
	if sel.uid != "" {
		return c.MatchUID(sel.uid)
	}
	for i := range c {
		if c[i].ID == sel.id {
			return i, nil
		}
	}
	return -1, task.ErrNotFound
}
