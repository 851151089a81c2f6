package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbotcounter/internal/countup"
)

func newFormatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format VALUE...",
		Short: "Print values the way the counter displays them",
		Example: `  dbotcounter format 1234567.891 --decimals 2
  dbotcounter format --prefix '$' -- -42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Counter
			f := countup.NewFormatter(cc.Decimals, cc.DisplayOptions())
			for _, arg := range args {
				v, err := parseNumber(arg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), f.Format(v))
			}
			return nil
		},
	}
	cmd.Flags().AddFlagSet(counterFlags())
	return cmd
}
