package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbotcounter/internal/countup"
	"dbotcounter/internal/domain"
)

func TestHistoryRenderEmpty(t *testing.T) {
	h := NewHistory(10)
	assert.Equal(t, "No fetches yet\n", h.Render(countup.NewFormatter(0, countup.DefaultOptions())))
}

func TestHistoryRenderNewestFirstWithDelta(t *testing.T) {
	h := NewHistory(10)
	f := countup.NewFormatter(0, countup.DefaultOptions())

	h.AddSample(domain.CountSample{Count: 1000, At: t0})
	h.AddFailure(t0.Add(time.Minute), errors.New("timeout"))
	h.AddSample(domain.CountSample{Count: 1250, At: t0.Add(2 * time.Minute)})

	lines := strings.Split(strings.TrimSuffix(h.Render(f), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2024-03-01 12:02:00  1,250  (+250)", lines[0])
	assert.Equal(t, "2024-03-01 12:01:00  error  timeout", lines[1])
	assert.Equal(t, "2024-03-01 12:00:00  1,000", lines[2])
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.AddSample(domain.CountSample{Count: int64(i), At: t0.Add(time.Duration(i) * time.Second)})
	}
	assert.Equal(t, 3, h.Len())

	out := h.Render(countup.NewFormatter(0, countup.DefaultOptions()))
	assert.NotContains(t, out, "12:00:00 ")
	assert.Contains(t, out, "12:00:04  4  (+1)")
}

func TestHistoryDefaultLimit(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 100, h.limit)
}
