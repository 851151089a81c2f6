package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbotcounter/internal/countup"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Minute, cfg.Poll.Interval())
	assert.Equal(t, 10*time.Second, cfg.Endpoint.Timeout())
	assert.Equal(t, time.Second/60, cfg.Counter.FrameInterval())
	assert.Equal(t, int64(100), cfg.Poll.Backfill)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	svc := NewConfigServiceAt(path, nil)

	cfg := DefaultConfig()
	cfg.Endpoint.URL = "https://dbot.example/messages"
	cfg.Counter.Prefix = "#"
	cfg.Counter.UseEasing = true
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "absent.toml"), nil)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = svc.LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[endpoint]
url = "http://10.0.0.1/messages"

[counter]
decimals = 2
group_separator = ""
`), 0644))

	cfg, err := NewConfigServiceAt(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.1/messages", cfg.Endpoint.URL)
	assert.Equal(t, 2, cfg.Counter.Decimals)
	assert.Equal(t, 60, cfg.Poll.IntervalSeconds)
	assert.Equal(t, 60.0, cfg.Counter.DurationSeconds)

	// An empty separator turns grouping off once it reaches the formatter
	f := countup.NewFormatter(cfg.Counter.Decimals, cfg.Counter.DisplayOptions())
	assert.Equal(t, "1234.50", f.Format(1234.5))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[endpoint\nurl="), 0644))

	_, err := NewConfigServiceAt(path, nil).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoint.URL = ""
	cfg.Poll.IntervalSeconds = 0
	cfg.Counter.FrameRate = 500
	cfg.Endpoint.Attempts = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint.url")
	assert.Contains(t, err.Error(), "poll.interval_seconds")
	assert.Contains(t, err.Error(), "counter.frame_rate")
	assert.Contains(t, err.Error(), "endpoint.attempts")
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	v.Set("endpoint.url", "http://override/messages")
	v.Set("endpoint.attempts", 5)
	v.Set("poll.backfill", 250)
	v.Set("counter.duration_seconds", 2.5)
	v.Set("counter.use_easing", true)
	v.Set("counter.suffix", " msgs")

	cfg := DefaultConfig()
	cfg.ApplyOverrides(v)

	assert.Equal(t, "http://override/messages", cfg.Endpoint.URL)
	assert.Equal(t, uint(5), cfg.Endpoint.Attempts)
	assert.Equal(t, int64(250), cfg.Poll.Backfill)
	assert.Equal(t, 2.5, cfg.Counter.DurationSeconds)
	assert.True(t, cfg.Counter.UseEasing)
	assert.Equal(t, " msgs", cfg.Counter.Suffix)

	// Untouched keys keep their values
	assert.Equal(t, 60, cfg.Poll.IntervalSeconds)
	assert.Equal(t, " ", cfg.Counter.GroupSeparator)

	cfg.ApplyOverrides(nil)
	assert.Equal(t, "http://override/messages", cfg.Endpoint.URL)
}
