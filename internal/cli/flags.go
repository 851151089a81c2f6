package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dbotcounter/internal/config"
)

// counterFlags registers the display flags shared by watch, animate and
// format. Defaults are empty; only flags the user sets override the config.
func counterFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("counter", pflag.ContinueOnError)
	fs.Int("decimals", 0, "digits after the decimal point")
	fs.Float64("duration", 0, "animation duration in seconds")
	fs.Int("frame-rate", 0, "frames per second")
	fs.Bool("easing", false, "ease out instead of counting linearly")
	fs.Bool("grouping", false, "group thousands")
	fs.String("separator", "", "thousands separator")
	fs.String("decimal", "", "decimal separator")
	fs.String("prefix", "", "text before the number")
	fs.String("suffix", "", "text after the number")
	return fs
}

// applyCounterFlags copies the counter flags the user set onto c
func applyCounterFlags(cmd *cobra.Command, c *config.CounterConfig) error {
	fs := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = apply()
	}

	set("decimals", func() (e error) { c.Decimals, e = fs.GetInt("decimals"); return })
	set("duration", func() (e error) { c.DurationSeconds, e = fs.GetFloat64("duration"); return })
	set("frame-rate", func() (e error) { c.FrameRate, e = fs.GetInt("frame-rate"); return })
	set("easing", func() (e error) { c.UseEasing, e = fs.GetBool("easing"); return })
	set("grouping", func() (e error) { c.UseGrouping, e = fs.GetBool("grouping"); return })
	set("separator", func() (e error) { c.GroupSeparator, e = fs.GetString("separator"); return })
	set("decimal", func() (e error) { c.DecimalSeparator, e = fs.GetString("decimal"); return })
	set("prefix", func() (e error) { c.Prefix, e = fs.GetString("prefix"); return })
	set("suffix", func() (e error) { c.Suffix, e = fs.GetString("suffix"); return })
	return err
}
