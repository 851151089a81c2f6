// Package cli wires the dbotcounter commands together.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dbotcounter/internal/config"
	"dbotcounter/internal/eventbus"
	"dbotcounter/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. DBOTCOUNTER_ENDPOINT_URL
const EnvPrefix = "DBOTCOUNTER"

// app carries state shared by every command of one invocation
type app struct {
	v       *viper.Viper
	cfgFile string

	bus      eventbus.EventBus
	cfgSvc   config.ConfigService
	cfg      *config.Config
	log      *zap.Logger
	closeLog func()
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), closeLog: func() {}}
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "dbotcounter",
		Short: "Animated counter for the DBOT scanned-messages total",
		Long: `dbotcounter polls the DBOT backend for the number of scanned messages and
animates the total in the terminal, counting from the previous value to the
new one over each polling interval.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./"+config.FileName+" or the user config dir)")
	root.PersistentFlags().String("log-file", "", "log file path")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("log.path", root.PersistentFlags().Lookup("log-file"))
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	watch := newWatchCmd(a)
	root.AddCommand(watch)
	root.AddCommand(newAnimateCmd(a))
	root.AddCommand(newFormatCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	// Bare invocation runs the dashboard
	root.Flags().AddFlagSet(watch.Flags())
	root.RunE = watch.RunE

	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and opens the log file
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.bus = eventbus.New(nil)
	a.cfgSvc = a.configService()

	cfg, err := a.cfgSvc.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(a.v)
	if err := applyCounterFlags(cmd, &cfg.Counter); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", a.cfgSvc.Path(), err)
	}
	a.cfg = cfg

	a.log, a.closeLog = logging.NewOrNop(cfg.Log.Path, cfg.Log.Level)
	a.log.Info("starting",
		zap.String("command", cmd.Name()),
		zap.String("config", a.cfgSvc.Path()),
		zap.String("endpoint", cfg.Endpoint.URL))
	return nil
}

func (a *app) teardown() {
	if a.bus != nil {
		a.bus.Close()
	}
	a.closeLog()
}

// configService picks --config, then a file in the working directory, then
// the user config directory.
func (a *app) configService() config.ConfigService {
	if a.cfgFile != "" {
		return config.NewConfigServiceAt(a.cfgFile, a.bus)
	}
	if _, err := os.Stat(config.FileName); err == nil {
		return config.NewConfigServiceAt(config.FileName, a.bus)
	} else if !errors.Is(err, os.ErrNotExist) {
		a.warn("cannot stat %s: %v", config.FileName, err)
	}
	return config.NewConfigServiceWithBus(a.bus)
}

func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
