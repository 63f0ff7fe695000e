// Package shell runs a line-oriented prompt over one long-lived Service so
// that completions can be undone while the undo window is open.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/printers"
)

const help = `Commands:
  ls                 show today's focus, up next and the routine
  dump <text>        add lines (classified and saved right away)
  later [title]      list tasks saved for later, or save one
  promote <n>        move an up-next task into today's focus
  done <n>           complete a task
  undo               put the last completed task back
  toggle <n>         check or uncheck a routine step
  recap              summarize today
  archive            show what was completed this week
  quit               leave the shell`

// Shell reads commands from In and writes results to Out.
type Shell struct {
	Service *app.Service
	In      io.Reader
	Out     io.Writer
	Prompt  string

	mu sync.Mutex
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Do runs the prompt until quit, EOF or ctx is done.
func (s *Shell) Do(ctx context.Context) error {
	out := lockedWriter{mu: &s.mu, w: s.Out}
	pp := &printers.PrettyPrint{Out: out}
	faint := color.New(color.Faint)

	prev := s.Service.OnUndoExpired
	s.Service.OnUndoExpired = func(e archive.Entry) {
		_, _ = faint.Fprintf(out, "\n(%s archived for good)\n", e.Title)
		if prev != nil {
			prev(e)
		}
	}
	defer func() { s.Service.OnUndoExpired = prev }()

	prompt := s.Prompt
	if prompt == "" {
		prompt = "ondeck> "
	}

	snap, err := s.Service.Hydrate(ctx)
	if err != nil {
		return err
	}
	pp.Snapshot(snap)

	lines := bufio.NewScanner(s.In)
	for {
		_, _ = fmt.Fprint(out, prompt)
		if !lines.Scan() {
			_, _ = fmt.Fprintln(out, "")
			return lines.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		verb, rest := split(lines.Text())
		if verb == "" {
			continue
		}
		if verb == "quit" || verb == "exit" || verb == "q" {
			return nil
		}
		if err := s.run(ctx, pp, out, verb, rest); err != nil {
			_, _ = color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
		}
	}
}

func (s *Shell) run(ctx context.Context, pp *printers.PrettyPrint, out io.Writer, verb, rest string) error {
	svc := s.Service
	switch verb {
	case "help", "?":
		_, _ = fmt.Fprintln(out, help)
	case "ls", "today":
		if _, err := svc.Reconcile(ctx); err != nil {
			return err
		}
		snap, err := svc.Snapshot(ctx)
		if err != nil {
			return err
		}
		pp.Snapshot(snap)
	case "dump":
		drafts := svc.Intake(rest)
		if len(drafts) == 0 {
			return fmt.Errorf("nothing to add")
		}
		res, err := svc.ConfirmReview(ctx, drafts)
		if err != nil {
			return err
		}
		pp.Review(res)
	case "later":
		if rest == "" {
			items, err := svc.Later(ctx)
			if err != nil {
				return err
			}
			pp.Backlog(items...)
			return nil
		}
		it, err := svc.AddLater(ctx, rest, "", "")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s %s saved for later\n", glyph.Later, it.Title)
	case "promote":
		n, err := number(rest)
		if err != nil {
			return err
		}
		t, err := svc.Promote(ctx, n)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%3d %s %s\n", t.ID, glyph.Focus, t.Title)
	case "done", "x":
		n, err := number(rest)
		if err != nil {
			return err
		}
		e, err := svc.Complete(ctx, n)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s %s  (undo to put it back)\n", glyph.Completed, e.Title)
	case "undo", "u":
		t, ok, err := svc.Undo(ctx)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Nothing to undo.")
			return nil
		}
		_, _ = fmt.Fprintf(out, "%3d %s %s restored\n", t.ID, glyph.Task, t.Title)
	case "toggle", "t":
		n, err := number(rest)
		if err != nil {
			return err
		}
		items, err := svc.ToggleRoutine(ctx, n)
		if err != nil {
			return err
		}
		pp.Routine(items...)
	case "recap":
		r, err := svc.Recap(ctx)
		if err != nil {
			return err
		}
		pp.Recap(r)
	case "archive":
		groups, err := svc.History(ctx, 7)
		if err != nil {
			return err
		}
		pp.Archive(groups...)
	default:
		return fmt.Errorf("unknown command %q, try help", verb)
	}
	return nil
}

func split(line string) (string, string) {
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(verb), strings.TrimSpace(rest)
}

func number(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a number, got %q", s)
	}
	return n, nil
}
