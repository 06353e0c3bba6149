// Package tui implements the interactive cache editor on bubbletea.
//
// Key presses are decoded into form inputs and folded through form.Dispatch;
// the effects it returns become tea.Cmds that call the workflow. Step output
// and progress arrive as messages from the telemetry bridge.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/engine/form"
	"go.trai.ch/knob/internal/engine/layout"
	"go.trai.ch/knob/internal/engine/workflow"
	"go.trai.ch/knob/internal/ui/output"
	"go.trai.ch/knob/internal/ui/style"
)

// chromeRows are the rows below the form: the status line and the key help.
const chromeRows = 2

// Workflow is what the form needs from the workflow driver.
type Workflow interface {
	Load() (domain.Entries, error)
	Commit(entries domain.Entries) error
	Configure(ctx context.Context, entries domain.Entries, checkOnly bool, progress ports.ProgressFunc) workflow.Result
	Generate(ctx context.Context, entries domain.Entries, progress ports.ProgressFunc) workflow.Result
}

// Model is the bubbletea model of the cache editor.
type Model struct {
	ctx      context.Context
	workflow Workflow
	logger   ports.Logger

	entries domain.Entries
	session form.Session

	keys     KeyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model
	pager    paginator.Model
	page     viewport.Model
	term     *Vterm

	width    int
	height   int
	running  string
	exitCode int
	err      error
	quitting bool

	// persisting holds input while a deletion is committed. restore is the
	// entry list from before the deletion.
	persisting bool
	restore    domain.Entries
}

// NewModel creates a model editing entries. The workflow is attached with
// WithWorkflow before the program starts.
func NewModel(ctx context.Context, logger ports.Logger, entries domain.Entries) *Model {
	lipgloss.SetColorProfile(output.Profile(false))

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.ActiveDot = style.Running
	pager.InactiveDot = style.Pending

	return &Model{
		ctx:      ctx,
		logger:   logger,
		entries:  entries,
		session:  form.NewSession(form.DefaultHelp, layout.Viewport{}),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(warningStyle)),
		pager:    pager,
		page:     viewport.New(0, 0),
		term:     NewVterm(),
	}
}

// WithWorkflow attaches the workflow the form runs.
func (m *Model) WithWorkflow(wf Workflow) *Model {
	m.workflow = wf
	return m
}

// Entries returns the current entry list.
func (m *Model) Entries() domain.Entries {
	return m.entries
}

// Session returns the current session.
func (m *Model) Session() form.Session {
	return m.session
}

// ExitCode returns the exit code of the last workflow run.
func (m *Model) ExitCode() int {
	return m.exitCode
}

// Err returns the failure of the last workflow run or commit, if any.
func (m *Model) Err() error {
	return m.err
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case MsgStepStart:
		m.running = msg.Name
		m.term.Reset()

	case MsgStepLog:
		_, _ = m.term.Write(msg.Data)

	case MsgProgress:
		m.session = m.session.SetProgress(msg.Fraction, msg.Message)

	case MsgStepComplete:
		m.running = ""

	case MsgRunFinished:
		return m, m.finishRun(msg)

	case MsgPersisted:
		m.persisting = false
		if msg.Err != nil {
			m.entries = m.restore
			m.session = m.session.Relayout(m.entries)
			m.fail(msg.Err)
		}
		m.restore = nil

	case MsgCacheChanged:
		if !m.session.Busy && !m.persisting && m.workflow != nil {
			return m, m.reload()
		}

	case MsgCacheReloaded:
		if m.session.Busy || m.persisting {
			break
		}
		if msg.Err != nil {
			m.fail(msg.Err)
			break
		}
		m.entries, m.session = form.Reload(m.entries, msg.Entries, m.session)
		m.logger.Info("cache changed on disk, reloaded")
		m.syncPage()

	case spinner.TickMsg:
		if m.session.Busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return tea.Quit
	}
	if m.persisting {
		return nil
	}

	before := m.entries
	in := m.keys.Decode(msg, m.session.Mode)
	var eff form.Effect
	m.entries, m.session, eff = form.Dispatch(m.entries, m.session, in)
	m.syncPage()
	if eff.Kind == form.EffectPersist {
		return m.persist(eff.Entry, before)
	}
	return m.apply(eff)
}

// persist commits the entry list after entry was deleted from before.
func (m *Model) persist(entry string, before domain.Entries) tea.Cmd {
	m.persisting = true
	m.restore = before

	snapshot := m.entries.Clone()
	wf := m.workflow
	return func() tea.Msg {
		return MsgPersisted{Entry: entry, Err: wf.Commit(snapshot)}
	}
}

func (m *Model) apply(eff form.Effect) tea.Cmd {
	switch eff.Kind {
	case form.EffectConfigure:
		return m.startRun(domain.StepConfigure)
	case form.EffectGenerate:
		return m.startRun(domain.StepGenerate)
	case form.EffectQuit:
		m.quitting = true
		return tea.Quit
	default:
		return nil
	}
}

func (m *Model) startRun(kind domain.StepKind) tea.Cmd {
	m.session = form.BeginRun(m.session)
	m.running = string(kind)
	m.term.Reset()

	snapshot := m.entries.Clone()
	ctx, wf := m.ctx, m.workflow
	run := func() tea.Msg {
		var res workflow.Result
		if kind == domain.StepGenerate {
			res = wf.Generate(ctx, snapshot, nil)
		} else {
			res = wf.Configure(ctx, snapshot, false, nil)
		}
		return MsgRunFinished{Kind: kind, Result: res}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) finishRun(msg MsgRunFinished) tea.Cmd {
	res := msg.Result
	m.exitCode = res.ExitCode
	m.err = res.Err
	m.running = ""
	if res.Err != nil {
		m.logger.Error(res.Err)
	}

	var eff form.Effect
	m.entries, m.session, eff = form.ApplyOutcome(m.entries, m.session, form.Outcome{
		Kind:      msg.Kind,
		Entries:   res.Entries,
		Errors:    res.Errors,
		Output:    res.Output,
		Converged: res.Converged,
		ExitCode:  res.ExitCode,
	})
	m.syncPage()
	return m.apply(eff)
}

func (m *Model) reload() tea.Cmd {
	wf := m.workflow
	return func() tea.Msg {
		entries, err := wf.Load()
		return MsgCacheReloaded{Entries: entries, Err: err}
	}
}

// fail records an error that happened outside a workflow run and shows it.
func (m *Model) fail(err error) {
	m.err = err
	m.logger.Error(err)
	m.session.Errors = append(m.session.Errors, err.Error())
	m.session.Mode = form.ShowingErrors
	m.session.Scroll = 0
	m.syncPage()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	formHeight := max(0, height-chromeRows)

	m.session = m.session.Resize(m.entries, layout.Viewport{Width: width, Height: formHeight})
	m.term.SetSize(width, formHeight)
	m.help.Width = width
	m.progress.Width = max(10, min(40, width/3))
	m.page.Width = width
	m.page.Height = max(1, formHeight-1)
	m.syncPage()
}

// syncPage mirrors the session into the page widgets and clamps the scroll
// offset of the help and error pages.
func (m *Model) syncPage() {
	if l := m.session.Layout; l != nil {
		m.pager.TotalPages = l.PageCount
		m.pager.Page = m.session.Cursor().Page
	}

	switch m.session.Mode {
	case form.ShowingHelp:
		m.page.SetContent(form.HelpPage(m.entries, m.session))
	case form.ShowingErrors:
		m.page.SetContent(form.ErrorPage(m.session))
	default:
		return
	}
	m.page.SetYOffset(m.session.Scroll)
	m.session.Scroll = m.page.YOffset
}
