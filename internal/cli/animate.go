package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dbotcounter/internal/countup"
)

func newAnimateCmd(a *app) *cobra.Command {
	var newline bool
	cmd := &cobra.Command{
		Use:   "animate START END",
		Short: "Count from START to END on stdout",
		Example: `  dbotcounter animate 0 1000000 --duration 5
  dbotcounter animate 100 0 --decimals 2 --prefix '$' --easing`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			end, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			return a.runAnimate(cmd.Context(), cmd.OutOrStdout(), start, end, newline)
		},
	}
	cmd.Flags().BoolVar(&newline, "lines", false, "print every frame on its own line")
	cmd.Flags().AddFlagSet(counterFlags())
	return cmd
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// eraseLine returns to column 0 and clears the line, so a shorter frame
// leaves no digits of the previous one behind.
const eraseLine = "\r\x1b[K"

// frameWriter redraws the current line on every frame, or appends a line
// per frame when lines is set.
type frameWriter struct {
	mu    sync.Mutex
	w     io.Writer
	lines bool
}

func (f *frameWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lines {
		return fmt.Fprintf(f.w, "%s\n", p)
	}
	return fmt.Fprintf(f.w, "%s%s", eraseLine, p)
}

func (a *app) runAnimate(parent context.Context, out io.Writer, start, end float64, lines bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cc := a.cfg.Counter
	opts := cc.DisplayOptions()
	sink := &frameWriter{w: out, lines: lines}
	sched := countup.NewIntervalScheduler(countup.SystemClock, cc.FrameInterval())

	counter, err := countup.New(sink, start, end, cc.Decimals, cc.DurationSeconds, &opts,
		countup.WithScheduler(sched))
	if err != nil {
		return err
	}

	done := make(chan struct{})
	counter.Start(func() { close(done) })
	a.log.Info("animating",
		zap.Float64("from", start),
		zap.Float64("to", end),
		zap.Duration("duration", counter.Duration()))

	select {
	case <-done:
	case <-ctx.Done():
		// Stop scheduling and leave the last frame on screen
		counter.PauseResume()
	}

	if !lines {
		fmt.Fprintln(out)
	}
	return nil
}
