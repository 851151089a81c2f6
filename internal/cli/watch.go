package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dbotcounter/internal/eventbus"
	"dbotcounter/internal/messages"
	"dbotcounter/internal/ui"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the animated total in a terminal dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context())
		},
	}

	cmd.Flags().String("url", "", "messages endpoint")
	cmd.Flags().Int("interval", 0, "seconds between fetches")
	cmd.Flags().Int64("backfill", 0, "how far below the first total the first run starts")
	_ = a.v.BindPFlag("endpoint.url", cmd.Flags().Lookup("url"))
	_ = a.v.BindPFlag("poll.interval_seconds", cmd.Flags().Lookup("interval"))
	_ = a.v.BindPFlag("poll.backfill", cmd.Flags().Lookup("backfill"))
	cmd.Flags().AddFlagSet(counterFlags())

	return cmd
}

func (a *app) runWatch(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := a.cfg
	client := messages.NewClient(cfg.Endpoint.URL, cfg.Endpoint.Timeout(),
		messages.WithAttempts(cfg.Endpoint.Attempts),
		messages.WithLogger(a.log))
	poller := messages.NewPoller(client, a.bus, messages.PollerConfig{
		Endpoint:   cfg.Endpoint.URL,
		Interval:   cfg.Poll.Interval(),
		MinRefresh: cfg.Poll.MinRefresh(),
		Backfill:   cfg.Poll.Backfill,
	}, a.log)

	model := ui.NewModel(a.bus, cfg, a.log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Forward domain events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			a.log.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	unsubFetched := a.bus.Subscribe(eventbus.EventCountFetched, forward)
	unsubFailed := a.bus.Subscribe(eventbus.EventFetchFailed, forward)
	unsubDone := a.bus.Subscribe(eventbus.EventCounterCompleted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.CounterCompletedEvent); ok {
			a.log.Info("counter reached target", zap.Float64("value", event.Value))
		}
	})
	defer func() {
		unsubFetched()
		unsubFailed()
		unsubDone()
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			}
		}
	}()

	go poller.Run(ctx)

	a.log.Info("starting UI")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		a.log.Error("error running program", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	status := poller.Status()
	a.log.Info("UI exited",
		zap.Int("fetches", status.Fetches),
		zap.Int("failures", status.Failures))
	return nil
}
