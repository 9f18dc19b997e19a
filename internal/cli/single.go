package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) singleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Export or import one core file",
	}
	cmd.AddCommand(a.singleExportCommand(), a.singleImportCommand())
	return cmd
}

func (a *app) singleExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <core> <language>...",
		Short: "Export the localized text of a core file",
		Long: `Export the localized text of a core file for the given languages.
The language "all" selects every language of the game.

The output defaults to the input path with the format's extension. The txt
format also writes a .deinfo.json envelope next to the output.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			f, err := a.exportFormat()
			if err != nil {
				return err
			}
			if out == "" {
				out = replaceExt(in, "."+f.Ext())
			}
			r, err := a.runnerFor(in)
			if err != nil {
				return err
			}
			return r.SingleExport(in, out, args[1:], f, a.cfg.Export.AddLanguageNames)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	cmd.Flags().BoolP("add-language-names", "a", false, "prefix every txt line with its language")
	return cmd
}

func (a *app) singleImportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <core> <exported>",
		Short: "Apply an edited export to a core file",
		Long: `Apply an edited export to a core file. The format is taken from the
exported file's extension unless --format is given.

The output defaults to the input path with ".new.core". Nothing is written
when the result equals the input, unless --dont-skip is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, exported := args[0], args[1]
			f, err := a.importFormat(cmd, exported)
			if err != nil {
				return err
			}
			if out == "" {
				out = replaceExt(in, ".new"+filepath.Ext(in))
			}
			r, err := a.runnerFor(in)
			if err != nil {
				return err
			}
			return a.unchanged(r.SingleImport(in, exported, out, f, a.cfg.Import.DontSkip), in)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	cmd.Flags().Bool("dont-skip", false, "write the output even when nothing changed")
	return cmd
}
