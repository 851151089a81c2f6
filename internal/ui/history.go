package ui

import (
	"fmt"
	"strings"
	"time"

	"dbotcounter/internal/countup"
	"dbotcounter/internal/domain"
)

// historyEntry is one fetch outcome
type historyEntry struct {
	at     time.Time
	sample *domain.CountSample
	err    string
}

// History keeps the most recent fetch outcomes, oldest first
type History struct {
	limit   int
	entries []historyEntry
}

// NewHistory creates a history holding at most limit entries
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 100
	}
	return &History{limit: limit}
}

// AddSample records a successful fetch
func (h *History) AddSample(s domain.CountSample) {
	h.add(historyEntry{at: s.At, sample: &s})
}

// AddFailure records a failed fetch
func (h *History) AddFailure(at time.Time, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	h.add(historyEntry{at: at, err: msg})
}

func (h *History) add(e historyEntry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns the number of entries kept
func (h *History) Len() int {
	return len(h.entries)
}

// Render lists entries newest first with the change since the previous sample
func (h *History) Render(f countup.Formatter) string {
	if len(h.entries) == 0 {
		return "No fetches yet\n"
	}

	lines := make([]string, 0, len(h.entries))
	var prev *domain.CountSample
	for _, e := range h.entries {
		stamp := e.at.Format("2006-01-02 15:04:05")
		switch {
		case e.sample == nil:
			lines = append(lines, fmt.Sprintf("%s  error  %s", stamp, e.err))
		case prev == nil:
			lines = append(lines, fmt.Sprintf("%s  %s", stamp, f.Format(float64(e.sample.Count))))
		default:
			delta := e.sample.Count - prev.Count
			lines = append(lines, fmt.Sprintf("%s  %s  (%+d)", stamp, f.Format(float64(e.sample.Count)), delta))
		}
		if e.sample != nil {
			prev = e.sample
		}
	}

	var b strings.Builder
	for i := len(lines) - 1; i >= 0; i-- {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	return b.String()
}
