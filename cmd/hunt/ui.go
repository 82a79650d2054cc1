package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/treasure-hunt/internal/logger"
	"github.com/jwebster45206/treasure-hunt/internal/render"
	"github.com/jwebster45206/treasure-hunt/pkg/hunt"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// runEventBuffer holds every event a single run can emit, so a superseded
// run never blocks on a channel nobody reads.
const runEventBuffer = 2*hunt.StepCount + 4

// ConsoleUI is the BubbleTea model that hosts the hunt.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	catalog       *hunt.Catalog
	runner        *hunt.Runner
	session       *hunt.Session
	canvas        *render.Canvas
	logger        *slog.Logger
	frameInterval time.Duration

	// seq identifies the session the current events belong to
	seq    int
	events chan tea.Msg
	runErr error

	spinner      spinner.Model
	metaViewport viewport.Model
	help         help.Model
	keys         keyMap
	notice       string
	width        int
	height       int

	showQuitModal bool

	copyToClipboard func(string) error
}

type statusMsg struct {
	seq    int
	status string
}

type placedMsg struct {
	seq    int
	result hunt.StepResult
}

type runDoneMsg struct {
	seq int
	err error
}

type frameMsg struct {
	seq int
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Restart key.Binding
	Copy    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Restart, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Restart, k.Copy, k.Quit}}
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "move up")),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "move down")),
		Left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←↑→↓", "move hero")),
		Right:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "move right")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy story")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	arenaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	metaPanelStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(catalog *hunt.Catalog, runner *hunt.Runner, session *hunt.Session, frameInterval time.Duration, log *slog.Logger) ConsoleUI {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	canvas := render.NewCanvas(session.Arena, render.DefaultCellWidth, render.DefaultCellHeight)
	session.Animator.Redraw(canvas)

	return ConsoleUI{
		catalog:         catalog,
		runner:          runner,
		session:         session,
		canvas:          canvas,
		logger:          log,
		frameInterval:   frameInterval,
		seq:             1,
		events:          make(chan tea.Msg, runEventBuffer),
		spinner:         sp,
		metaViewport:    viewport.New(30, 20),
		help:            help.New(),
		keys:            newKeyMap(),
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runCmd())
}

// runCmd starts the session's run and delivers its first event
func (m ConsoleUI) runCmd() tea.Cmd {
	runner, sess, seq, ch := m.runner, m.session, m.seq, m.events
	return func() tea.Msg {
		go func() {
			err := runner.Run(context.Background(), sess, runSink{seq: seq, ch: ch})
			ch <- runDoneMsg{seq: seq, err: err}
		}()
		return <-ch
	}
}

func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m ConsoleUI) frameTick() tea.Cmd {
	seq := m.seq
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameMsg{seq: seq}
	})
}

// runSink forwards runner events into the program's message loop
type runSink struct {
	seq int
	ch  chan<- tea.Msg
}

func (s runSink) SetStatus(status string) {
	s.ch <- statusMsg{seq: s.seq, status: status}
}

func (s runSink) PlaceStep(res hunt.StepResult) {
	s.ch <- placedMsg{seq: s.seq, result: res}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeMeta()

	case statusMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.notice = ""
		return m, waitForEvent(m.events)

	case placedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.session.Animator.Place(m.canvas, msg.result)
		m.refreshMeta()
		return m, waitForEvent(m.events)

	case runDoneMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.runErr = msg.err
		if msg.err != nil {
			if _, ok := hunt.IsStepFailure(msg.err); !ok {
				logger.WithError(m.logger, msg.err).Error("Run ended unexpectedly")
			}
		}
		m.refreshMeta()
		if !m.session.Animator.Start() {
			return m, nil
		}
		if m.session.Animator.Frame(m.canvas) {
			return m, m.frameTick()
		}
		return m, nil

	case frameMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if m.session.Animator.Frame(m.canvas) {
			return m, m.frameTick()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.showQuitModal = true
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveMarker(hunt.Up)
	case key.Matches(msg, m.keys.Down):
		m.moveMarker(hunt.Down)
	case key.Matches(msg, m.keys.Left):
		m.moveMarker(hunt.Left)
	case key.Matches(msg, m.keys.Right):
		m.moveMarker(hunt.Right)
	case key.Matches(msg, m.keys.Restart):
		if !m.session.RestartVisible() {
			return m, nil
		}
		return m.restart()
	case key.Matches(msg, m.keys.Copy):
		m.copyRecord()
	}
	return m, nil
}

// moveMarker only repaints; moving never starts a run
func (m *ConsoleUI) moveMarker(dir hunt.Direction) {
	m.session.Marker.Move(dir)
	m.session.Animator.Redraw(m.canvas)
}

func (m ConsoleUI) restart() (tea.Model, tea.Cmd) {
	m.runner.Supersede()
	next, err := m.session.Restart()
	if err != nil {
		logger.WithError(m.logger, err).Error("Failed to restart")
		m.runErr = err
		return m, nil
	}
	logger.WithRunID(m.logger, next.ID).Info("Restarting hunt", "previous_run_id", m.session.ID.String())

	m.session = next
	m.seq++
	m.events = make(chan tea.Msg, runEventBuffer)
	m.runErr = nil
	m.notice = ""
	m.session.Animator.Redraw(m.canvas)
	m.refreshMeta()
	return m, m.runCmd()
}

func (m *ConsoleUI) copyRecord() {
	texts := m.session.Record.Texts()
	if len(texts) == 0 {
		m.notice = "Nothing to copy yet"
		return
	}
	if err := m.copyToClipboard(strings.Join(texts, "\n")); err != nil {
		logger.WithError(m.logger, err).Warn("Clipboard copy failed")
		m.notice = "Clipboard unavailable"
		return
	}
	m.notice = fmt.Sprintf("Copied %d steps", len(texts))
}

func (m *ConsoleUI) resizeMeta() {
	cols, rows := m.canvas.Size()
	metaWidth := m.width - cols - 4
	if metaWidth < 20 {
		metaWidth = 20
	}
	m.metaViewport.Width = metaWidth - 3
	m.metaViewport.Height = rows
	m.refreshMeta()
}

func (m *ConsoleUI) refreshMeta() {
	m.metaViewport.SetContent(writeMetadata(m.session, m.catalog, m.metaViewport.Width))
}

func writeMetadata(sess *hunt.Session, catalog *hunt.Catalog, width int) string {
	if width < 10 {
		width = 10
	}
	var content strings.Builder
	content.WriteString(titleStyle.Render("JOURNAL") + "\n\n")

	hp, maxHP := sess.HeroHP()
	content.WriteString(fmt.Sprintf("Hero: %s %d/%d\n\n", hearts(hp, maxHP), hp, maxHP))

	entries := sess.Record.Entries()
	if len(entries) == 0 {
		content.WriteString(promptStyle.Render("No steps completed yet.") + "\n")
	}
	for _, e := range entries {
		content.WriteString(stepStyle.Render(fmt.Sprintf("%d. %s", e.StepIndex+1, hunt.StepOrder[e.StepIndex].Title())) + "\n")
		content.WriteString(wordwrap.String(e.Text, width) + "\n\n")
	}

	content.WriteString(promptStyle.Render(fmt.Sprintf("Run %s...", sess.ID.String()[:8])) + "\n")
	content.WriteString(promptStyle.Render("Locale: "+catalog.Locale) + "\n")
	return content.String()
}

func hearts(hp, maxHP int) string {
	if maxHP <= 0 {
		return ""
	}
	const slots = 5
	full := (hp*slots + maxHP - 1) / maxHP
	return strings.Repeat("♥", full) + strings.Repeat("♡", slots-full)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	// keep the run's event stream flowing while the modal is up
	return m.passThrough(msg)
}

// passThrough lets run and frame messages reach the main loop while a modal is open
func (m ConsoleUI) passThrough(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case statusMsg, placedMsg, runDoneMsg, frameMsg, spinner.TickMsg:
		m.showQuitModal = false
		model, cmd := m.Update(msg)
		next := model.(ConsoleUI)
		next.showQuitModal = true
		return next, cmd
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Hunt?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to abandon the treasure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// statusLine is the pending label with a spinner, or the failure message
func (m ConsoleUI) statusLine() string {
	status := m.session.Status()
	width := m.width
	if width <= 0 {
		width = 80
	}

	var failure *hunt.StepFailure
	switch {
	case errors.As(m.runErr, &failure):
		return errorStyle.Render(truncate.StringWithTail(status, uint(width), "…"))
	case m.runErr != nil:
		return errorStyle.Render(truncate.StringWithTail(m.runErr.Error(), uint(width), "…"))
	case m.runner.InFlight() && !m.session.RestartVisible():
		return m.spinner.View() + " " + loadingStyle.Render(truncate.StringWithTail(status, uint(width-2), "…"))
	}
	return statusStyle.Render(truncate.StringWithTail(status, uint(width), "…"))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	m.keys.Restart.SetEnabled(m.session.RestartVisible())

	arena := arenaStyle.Render(m.canvas.View())
	meta := metaPanelStyle.Render(m.metaViewport.View())

	var footer strings.Builder
	footer.WriteString(m.statusLine() + "\n")
	if m.notice != "" {
		footer.WriteString(promptStyle.Render(m.notice) + "\n")
	}
	footer.WriteString(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.catalog.Title),
		lipgloss.JoinHorizontal(lipgloss.Top, arena, meta),
		footer.String(),
	)
}
