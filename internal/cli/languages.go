package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages of each game in code order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			games := []string{a.cfg.Game}
			if a.cfg.Game == "auto" {
				games = []string{"hzd", "ds"}
			}
			for _, game := range games {
				r, err := a.runnerNamed(game)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(a.out, "%s: %s\n", r.Name(), strings.Join(r.Languages(), ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
