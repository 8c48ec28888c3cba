package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"todopet/internal/config"
	"todopet/internal/session"
	"todopet/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type tickMsg time.Time

type formState struct {
	description string
	deadline    string
	repeat      string
	index       int
}

type Model struct {
	sess       *session.Session
	cfg        config.Config
	log        *zap.SugaredLogger
	report     session.Report
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
	now        func() time.Time
}

func Run(sess *session.Session, cfg config.Config, log *zap.SugaredLogger) error {
	program := tea.NewProgram(New(sess, cfg, log))
	_, err := program.Run()
	return err
}

func New(sess *session.Session, cfg config.Config, log *zap.SugaredLogger) Model {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		sess:   sess,
		cfg:    cfg,
		log:    log,
		report: sess.Status(),
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
		input:  ti,
		mode:   modeList,
		now:    time.Now,
	}
}

// Init runs the first tick straight away; each tick re-arms the next one.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return tickMsg(m.now())
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.apply(m.sess.Tick())
		return m, m.scheduleTick()
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// apply takes a fresh report from the session and keeps the cursor in range.
func (m *Model) apply(r session.Report) {
	m.report = r
	m.cursor = clampCursor(m.cursor, len(r.Tasks))
	if r.SaveErr != nil {
		m.status = fmt.Sprintf("save failed: %v", r.SaveErr)
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	tasks := m.report.Tasks
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		m.log.Infow("quit", "tasks", len(tasks), "mood", m.report.Mood.String())
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(tasks))
		}
	case m.cfg.Keys.Add:
		return m.startAdd()
	case m.cfg.Keys.Refresh:
		m.apply(m.sess.Tick())
		if m.report.SaveErr == nil {
			m.status = "Refreshed"
		}
	case m.cfg.Keys.Toggle:
		if len(tasks) == 0 {
			return m, nil
		}
		ok, r := m.sess.ToggleAt(m.cursor)
		if !ok {
			return m, nil
		}
		m.status = "Toggled task"
		m.apply(r)
	case m.cfg.Keys.Delete:
		if len(tasks) == 0 {
			return m, nil
		}
		t := tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Description)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		ok, r := m.sess.Delete(m.pendingDel.ID)
		if ok {
			m.status = "Deleted task"
		} else {
			m.status = "Task already gone"
		}
		m.apply(r)
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	deadline := m.now().Add(time.Hour).Truncate(time.Minute)
	m.form = &formState{
		deadline: task.FormatTime(deadline),
		repeat:   task.None.String(),
	}
	m.mode = modeAdd
	m.loadField()
	m.status = m.formPrompt()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.stopAdd()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "ctrl+r":
		if m.form.index == repeatField {
			m.form.cycleRepeat(m.input.Value())
			m.loadField()
		}
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.submitAdd()
		}
		m.form.index++
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	deadline, err := task.ParseTime(m.form.deadline)
	if err != nil {
		m.log.Debugw("rejected deadline", "value", m.form.deadline, "error", err)
		m.status = fmt.Sprintf("deadline invalid (want %s): %v", task.TimeLayout, err)
		return m, nil
	}
	rec, err := task.ParseRecurrence(m.form.repeat)
	if err != nil {
		m.status = fmt.Sprintf("repeat invalid: %v", err)
		return m, nil
	}
	t, ok, r := m.sess.Add(m.form.description, deadline, rec)
	if !ok {
		m.status = "Description cannot be empty"
		m.form.index = descriptionField
		m.loadField()
		return m, nil
	}
	m.stopAdd()
	m.status = "Added task"
	m.apply(r)
	for i, listed := range r.Tasks {
		if listed.ID == t.ID {
			m.cursor = i
			break
		}
	}
	return m, nil
}

func (m *Model) stopAdd() {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) loadField() {
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	prompt := fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
	if m.form.index == repeatField {
		prompt += " ctrl+r cycles."
	}
	return prompt
}

const (
	descriptionField = iota
	deadlineField
	repeatField
)

func formFields() []string {
	return []string{"description", "deadline (" + task.TimeLayout + ")", "repeat (none/daily/weekly/monthly)"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case descriptionField:
		return fs.description
	case deadlineField:
		return fs.deadline
	case repeatField:
		return fs.repeat
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case descriptionField:
		fs.description = v
	case deadlineField:
		fs.deadline = v
	case repeatField:
		fs.repeat = v
	}
}

func (fs *formState) cycleRepeat(current string) {
	rec, err := task.ParseRecurrence(current)
	if err != nil {
		rec = task.Monthly
	}
	fs.repeat = rec.Next().String()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderPet(m.report, m.sess.Thresholds()))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Todo: %d pending", m.report.Pending)))
	b.WriteString("\n\n")

	if len(m.report.Tasks) == 0 {
		b.WriteString("No tasks yet. Press '" + m.cfg.Keys.Add + "' to add one.")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	if m.form != nil {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	toggle := k.Toggle
	if toggle == " " {
		toggle = "space"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s refresh • %s quit",
		k.Up, k.Down, k.Add, toggle, k.Delete, k.Refresh, k.Quit)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	th := m.sess.Thresholds()
	for i, t := range m.report.Tasks {
		cursor := " "
		line := renderTask(t, m.report.At, th)
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + " " + line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	values := []string{m.form.description, m.form.deadline, m.form.repeat}
	var b strings.Builder
	b.WriteString("New task\n")
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-36s : %s\n", prefix, name, val))
	}
	return b.String()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
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
