package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/printers"
	"tableflip.dev/ondeck/pkg/routine"
	"tableflip.dev/ondeck/pkg/undo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type rowKind int

const (
	rowTask rowKind = iota
	rowStep
)

// row is one selectable line: an on-deck task or a routine step.
type row struct {
	kind rowKind
	task ondeck.Task
	step routine.Item
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	cheerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// Model contains UI state
type Model struct {
	svc  *app.Service
	ctx  context.Context
	mode mode

	snap   app.Snapshot
	rows   []row
	cursor int

	input  textinput.Model
	status string
	cheer  bool
	window time.Duration
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "What's on your mind? (add \"today\" to focus on it now)"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Prompt = "› "

	window := undo.DefaultWindow
	if svc != nil && svc.UndoWindow > 0 {
		window = svc.UndoWindow
	}

	return Model{
		svc:    svc,
		ctx:    context.Background(),
		mode:   modeList,
		input:  ti,
		status: "j/k move · x complete or check · p promote · u undo · a add · r refresh · q quit",
		window: window,
	}
}

// messages
type errMsg struct{ err error }
type loadedMsg struct{ snap app.Snapshot }
type statusMsg struct {
	text string
	snap app.Snapshot
}
type completedMsg struct {
	entryID string
	title   string
	snap    app.Snapshot
}
type undoClosedMsg struct{ entryID string }
type celebrateMsg struct{}

// Init loads initial data
func (m Model) Init() tea.Cmd {
	return m.hydrate()
}

func (m Model) hydrate() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Hydrate(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return loadedMsg{snap}
	}
}

func (m Model) reload(status string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Snapshot(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg{text: status, snap: snap}
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case loadedMsg:
		m.setSnapshot(msg.snap)
	case statusMsg:
		m.setSnapshot(msg.snap)
		m.status = msg.text
	case completedMsg:
		m.setSnapshot(msg.snap)
		m.status = fmt.Sprintf("%s %s · u to undo", glyph.Completed, msg.title)
		id := msg.entryID
		return m, tea.Tick(m.window, func(time.Time) tea.Msg { return undoClosedMsg{entryID: id} })
	case undoClosedMsg:
		if p := m.snap.Pending; p != nil && p.ID == msg.entryID {
			m.snap.Pending = nil
			m.status = fmt.Sprintf("%s %s archived", glyph.Completed, p.Title)
		}
	case celebrateMsg:
		m.cheer = true
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg)
		}
		return m.updateListMode(msg.String())
	}
	return m, nil
}

func (m *Model) setSnapshot(snap app.Snapshot) {
	m.snap = snap
	m.cheer = m.cheer && snap.RoutineComplete
	rows := make([]row, 0, len(snap.TodayFocus)+len(snap.UpNext)+len(snap.Routine))
	for _, t := range snap.TodayFocus {
		rows = append(rows, row{kind: rowTask, task: t})
	}
	for _, t := range snap.UpNext {
		rows = append(rows, row{kind: rowTask, task: t})
	}
	for _, it := range snap.Routine {
		rows = append(rows, row{kind: rowStep, step: it})
	}
	m.rows = rows
	m.cursor = clampCursor(m.cursor, len(rows))
}

func (m Model) selected() (row, bool) {
	if len(m.rows) == 0 {
		return row{}, false
	}
	return m.rows[clampCursor(m.cursor, len(m.rows))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = clampCursor(len(m.rows)-1, len(m.rows))
	case "a", "o":
		m.mode = modeAdd
		m.status = "Add: enter to save, esc to cancel"
		return m, m.input.Focus()
	case "r":
		return m, m.hydrate()
	case "u":
		return m, m.undo()
	case "p":
		r, ok := m.selected()
		if !ok || r.kind != rowTask {
			return m, nil
		}
		return m, m.promote(r.task)
	case "x", " ", "enter":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if r.kind == rowStep {
			return m, m.toggle(r.step)
		}
		return m, m.complete(r.task)
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		if text == "" {
			m.status = "Nothing to add"
			return m, nil
		}
		return m, m.add(text)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) add(text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ConfirmReview(m.ctx, m.svc.Intake(text))
		if err != nil {
			return errMsg{err}
		}
		status := fmt.Sprintf("%d on deck, %d for later", len(res.OnDeck), len(res.Later))
		if len(res.Dropped) > 0 {
			status += fmt.Sprintf(", %d already listed", len(res.Dropped))
		}
		return m.reload(status)()
	}
}

func (m Model) complete(t ondeck.Task) tea.Cmd {
	return func() tea.Msg {
		e, err := m.svc.Complete(m.ctx, t.ID)
		if err != nil {
			return errMsg{err}
		}
		snap, err := m.svc.Snapshot(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return completedMsg{entryID: e.ID, title: e.Title, snap: snap}
	}
}

func (m Model) undo() tea.Cmd {
	return func() tea.Msg {
		t, ok, err := m.svc.Undo(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		if !ok {
			return m.reload("Nothing to undo")()
		}
		return m.reload(fmt.Sprintf("%s %s restored", glyph.Task, t.Title))()
	}
}

func (m Model) promote(t ondeck.Task) tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Promote(m.ctx, t.ID)
		if err != nil {
			return errMsg{err}
		}
		return m.reload(fmt.Sprintf("%s %s is in today's focus", glyph.Focus, p.Title))()
	}
}

func (m Model) toggle(it routine.Item) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.ToggleRoutine(m.ctx, it.ID); err != nil {
			return errMsg{err}
		}
		return m.reload("")()
	}
}

// View renders the lists, the add prompt and the status line.
func (m Model) View() string {
	var b strings.Builder
	today := m.snap.Today

	idx := 0
	section := func(title string, n int) {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", title, n)))
		b.WriteString("\n")
		if n == 0 {
			b.WriteString(faintStyle.Render("  none"))
			b.WriteString("\n")
		}
	}
	line := func(text string) {
		cursor := "  "
		if idx == m.cursor && m.mode == modeList {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + text + "\n")
		idx++
	}

	section("Today's Focus", len(m.snap.TodayFocus))
	for _, t := range m.snap.TodayFocus {
		line(taskLine(t, today))
	}
	b.WriteString("\n")
	section("Up Next", len(m.snap.UpNext))
	for _, t := range m.snap.UpNext {
		line(taskLine(t, today))
	}
	b.WriteString("\n")
	section("Daily Routine", len(m.snap.Routine))
	for _, it := range m.snap.Routine {
		if it.Done {
			line(faintStyle.Render(glyph.StepDone.String() + " " + it.Title))
			continue
		}
		line(glyph.Step.String() + " " + it.Title)
	}

	b.WriteString("\n")
	if m.cheer {
		b.WriteString(cheerStyle.Render("Routine complete. Nice work!"))
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d completed today · %d saved for later", m.snap.CompletedToday, len(m.snap.Later))))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	return b.String()
}

func taskLine(t ondeck.Task, today datekey.Key) string {
	bullet := printers.TaskBullet(t, today)
	text := bullet.String() + " " + t.Title
	if bullet == glyph.Overdue {
		text = alertStyle.Render(bullet.String()) + " " + t.Title
	}
	if t.DueToday(today) {
		text += faintStyle.Render("  due today")
	} else if !t.Due.IsZero() {
		text += faintStyle.Render("  due " + t.Due.String())
	}
	return text
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

// Run launches the full-screen UI. Routine celebrations are delivered to the
// running program instead of being printed.
func Run(ctx context.Context, svc *app.Service) error {
	m := New(svc)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	prev := svc.OnRoutineComplete
	svc.OnRoutineComplete = func() { p.Send(celebrateMsg{}) }
	defer func() { svc.OnRoutineComplete = prev }()

	_, err := p.Run()
	return err
}
