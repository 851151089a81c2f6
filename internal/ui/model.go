package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"dbotcounter/internal/config"
	"dbotcounter/internal/countup"
	"dbotcounter/internal/domain"
	"dbotcounter/internal/eventbus"
)

// display is the counter's sink: the latest formatted value
type display struct {
	text string
}

func (d *display) SetContent(s string) { d.text = s }

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	log    *zap.Logger

	// Counter and the frame queue it schedules into. Frames are flushed on
	// every redraw tick, which makes the redraw loop the refresh cycle.
	queue     *countup.FrameQueue
	counter   *countup.Counter
	display   *display
	formatter countup.Formatter
	framing   bool // a frameMsg tick is in flight

	history    *History
	lastSample *domain.CountSample
	lastError  string
	status     string
	completed  int

	width  int
	height int
	styles *Styles
	keys   keyMap
	help   help.Model
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		bus:       bus,
		config:    cfg,
		log:       log.Named("ui"),
		queue:     countup.NewFrameQueue(),
		display:   &display{},
		formatter: countup.NewFormatter(cfg.Counter.Decimals, cfg.Counter.DisplayOptions()),
		history:   NewHistory(200),
		styles:    NewStyles(),
		keys:      newKeyMap(),
		help:      help.New(),
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Counter returns the animated counter, nil until the first total arrives
func (m *Model) Counter() *countup.Counter {
	return m.counter
}

// Display returns the text currently shown by the counter
func (m *Model) Display() string {
	return m.display.text
}

// Update handles messages and returns the updated model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.framing = false
		m.queue.Flush(time.Time(msg))
		return m, m.nextFrame()

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case pagerClosedMsg:
		if msg.err != nil {
			m.log.Error("pager failed", zap.Error(msg.err))
			m.lastError = fmt.Sprintf("pager: %v", msg.err)
		}
		return m, m.nextFrame()

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		if m.counter == nil {
			return m, nil
		}
		m.counter.PauseResume()
		return m, m.nextFrame()

	case key.Matches(msg, m.keys.Reset):
		if m.counter == nil {
			return m, nil
		}
		m.counter.Reset()
		return m, m.flash("Counter reset")

	case key.Matches(msg, m.keys.Refresh):
		m.bus.Publish(eventbus.RefreshRequestedEvent{})
		return m, m.flash("Refresh requested")

	case key.Matches(msg, m.keys.History):
		return m, showInPager(m.history.Render(m.formatter))

	case key.Matches(msg, m.keys.Help):
		return m, showInPager(RenderHelpContent(m.config.Endpoint.URL))
	}

	return m, nil
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.CountFetchedEvent:
		sample := e.Sample
		m.lastSample = &sample
		m.lastError = ""
		m.history.AddSample(sample)
		return m.retarget(e.Run)

	case eventbus.FetchFailedEvent:
		m.lastError = e.Err.Error()
		m.history.AddFailure(e.At, e.Err)
		return nil
	}
	return nil
}

// retarget starts the counter on the first run and moves the target on every
// later one, so the animation continues from whatever is on screen.
func (m *Model) retarget(run domain.Run) tea.Cmd {
	if m.counter == nil {
		opts := m.config.Counter.DisplayOptions()
		c, err := countup.New(m.display, run.Start, run.End,
			m.config.Counter.Decimals, m.config.Counter.DurationSeconds, &opts,
			countup.WithScheduler(m.queue))
		if err != nil {
			// display always satisfies ContentSink
			m.log.Error("failed to create counter", zap.Error(err))
			return nil
		}
		m.counter = c
		m.counter.Start(m.onComplete)
		m.log.Info("counter started", zap.Float64("from", run.Start), zap.Float64("to", run.End))
		return m.nextFrame()
	}

	m.counter.Update(run.End)
	m.log.Debug("counter retargeted", zap.Float64("to", run.End))
	return m.nextFrame()
}

// onComplete runs inside a frame flush, on the bubbletea goroutine
func (m *Model) onComplete() {
	m.completed++
	m.bus.Publish(eventbus.CounterCompletedEvent{Value: m.counter.Value()})
}

// nextFrame schedules a redraw tick when the counter has frames queued and no
// tick is already in flight.
func (m *Model) nextFrame() tea.Cmd {
	if m.framing || m.queue.Pending() == 0 {
		return nil
	}
	m.framing = true
	return tea.Tick(m.config.Counter.FrameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) flash(text string) tea.Cmd {
	m.status = text
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("DBOT messages scanned"))
	b.WriteString("\n")

	value := m.display.text
	if m.counter == nil {
		value = countup.Placeholder
	}
	box := m.styles.CounterBox
	if m.width > 8 {
		box = box.Width(min(m.width-8, 40))
	}
	b.WriteString(box.Render(m.styles.Counter.Render(value)))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderStatus() string {
	var parts []string
	parts = append(parts, m.renderState())

	if m.lastSample != nil {
		parts = append(parts, fmt.Sprintf("last fetch %s (%s)",
			m.lastSample.At.Format("15:04:05"),
			m.formatter.Format(float64(m.lastSample.Count))))
	} else {
		parts = append(parts, "waiting for first fetch")
	}
	parts = append(parts, m.styles.Dim.Render(m.config.Endpoint.URL))

	lines := []string{m.styles.Status.Render(strings.Join(parts, " · "))}
	if m.lastError != "" {
		lines = append(lines, m.styles.StatusError.Render("error: "+m.lastError))
	}
	if m.status != "" {
		lines = append(lines, m.styles.StatusInfo.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *Model) renderState() string {
	if m.counter == nil {
		return m.styles.StateIdle.Render("idle")
	}
	state := m.counter.State()
	switch state {
	case countup.Running:
		return m.styles.StateRunning.Render(state.String())
	case countup.Paused:
		return m.styles.StatePaused.Render(state.String())
	case countup.Completed:
		return m.styles.StateComplete.Render(state.String())
	default:
		return m.styles.StateIdle.Render(state.String())
	}
}
