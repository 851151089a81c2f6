package ui

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbotcounter/internal/config"
	"dbotcounter/internal/countup"
	"dbotcounter/internal/domain"
	"dbotcounter/internal/eventbus"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (*Model, eventbus.EventBus) {
	t.Helper()
	bus := eventbus.New(nil)
	t.Cleanup(bus.Close)
	cfg := config.DefaultConfig()
	cfg.Counter.DurationSeconds = 2
	return NewModel(bus, cfg, nil), bus
}

func fetched(start, end float64, count int64) EventMsg {
	return EventMsg{Event: eventbus.CountFetchedEvent{
		Sample: domain.CountSample{Count: count, At: t0},
		Run:    domain.Run{Start: start, End: end},
	}}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func frame(m *Model, ms int) {
	m.Update(frameMsg(t0.Add(time.Duration(ms) * time.Millisecond)))
}

func TestModelShowsPlaceholderBeforeFirstFetch(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Nil(t, m.Counter())
	view := m.View()
	assert.Contains(t, view, countup.Placeholder)
	assert.Contains(t, view, "waiting for first fetch")
}

func TestModelStartsCounterOnFirstFetch(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(fetched(900, 1000, 1000))
	require.NotNil(t, m.Counter())
	assert.NotNil(t, cmd, "a frame tick should be scheduled")
	assert.Equal(t, countup.Running, m.Counter().State())
	assert.Equal(t, "900", m.Display())

	// A second tick is not armed while one is in flight
	_, cmd = m.Update(fetched(900, 1000, 1000))
	assert.Nil(t, cmd)
}

func TestModelFramesDriveCounterToCompletion(t *testing.T) {
	m, bus := newTestModel(t)

	var completed atomic.Int32
	bus.Subscribe(eventbus.EventCounterCompleted, func(e eventbus.DomainEvent) {
		completed.Add(1)
	})

	m.Update(fetched(900, 1000, 1000))
	frame(m, 0)
	frame(m, 1000)
	assert.Equal(t, countup.Running, m.Counter().State())

	_, cmd := m.Update(frameMsg(t0.Add(2500 * time.Millisecond)))
	assert.Nil(t, cmd, "no tick once the counter is done")
	assert.Equal(t, countup.Completed, m.Counter().State())
	assert.Equal(t, "1 000", m.Display())
	assert.Contains(t, m.View(), "completed")

	assert.Eventually(t, func() bool { return completed.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestModelRetargetsOnLaterFetch(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(fetched(900, 1000, 1000))
	frame(m, 0)
	frame(m, 2000)
	require.Equal(t, countup.Completed, m.Counter().State())

	_, cmd := m.Update(fetched(1000, 1200, 1200))
	assert.NotNil(t, cmd)
	assert.Equal(t, countup.Running, m.Counter().State())
	assert.Equal(t, 1000.0, m.Counter().StartValue())
	assert.Equal(t, 1200.0, m.Counter().EndValue())

	frame(m, 3000)
	frame(m, 5000)
	assert.Equal(t, "1 200", m.Display())
}

func TestModelPauseKey(t *testing.T) {
	m, _ := newTestModel(t)

	// No counter yet, nothing to pause
	_, cmd := m.Update(runeKey('p'))
	assert.Nil(t, cmd)

	m.Update(fetched(0, 100, 100))
	frame(m, 0)
	frame(m, 500)

	m.Update(runeKey('p'))
	assert.Equal(t, countup.Paused, m.Counter().State())
	assert.Contains(t, m.View(), "paused")
	shown := m.Display()

	frame(m, 5000)
	assert.Equal(t, shown, m.Display(), "paused counter must not advance")

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, countup.Running, m.Counter().State())
}

func TestModelResetKey(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(fetched(10, 100, 100))
	frame(m, 0)
	frame(m, 1000)
	require.NotEqual(t, "10", m.Display())

	_, cmd := m.Update(runeKey('r'))
	assert.NotNil(t, cmd)
	assert.Equal(t, countup.Idle, m.Counter().State())
	assert.Equal(t, "10", m.Display())
	assert.Contains(t, m.View(), "Counter reset")

	m.Update(clearStatusMsg{})
	assert.NotContains(t, m.View(), "Counter reset")
}

func TestModelRefreshKeyPublishes(t *testing.T) {
	m, bus := newTestModel(t)

	var requested atomic.Int32
	bus.Subscribe(eventbus.EventRefreshRequested, func(e eventbus.DomainEvent) {
		requested.Add(1)
	})

	m.Update(runeKey('u'))
	assert.Eventually(t, func() bool { return requested.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestModelFetchFailure(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(EventMsg{Event: eventbus.FetchFailedEvent{
		Endpoint: "http://example.invalid/messages",
		At:       t0,
		Err:      errors.New("connection refused"),
	}})
	assert.Contains(t, m.View(), "connection refused")
	assert.Equal(t, 1, m.history.Len())

	// A successful fetch clears the error
	m.Update(fetched(0, 5, 5))
	assert.NotContains(t, m.View(), "connection refused")
	assert.Equal(t, 2, m.history.Len())
}

func TestModelQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelPagerKeysReturnExec(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runeKey('?'))
	assert.NotNil(t, cmd)
	_, cmd = m.Update(runeKey('l'))
	assert.NotNil(t, cmd)

	m.Update(pagerClosedMsg{err: errors.New("no tty")})
	assert.Contains(t, m.View(), "pager: no tty")
}
