package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/dloc/internal/serialize"
)

func (a *app) groupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Export or import every core file under a directory",
	}
	cmd.PersistentFlags().String("ext", "core", "extension of the core files, without the dot")
	cmd.AddCommand(a.groupExportCommand(), a.groupImportCommand())
	return cmd
}

// groupRunner detects the game over every discovered file when it is "auto".
func (a *app) groupRunner(root string) (runner, error) {
	if a.cfg.Game != "auto" {
		return a.runnerNamed(a.cfg.Game)
	}
	rels, err := serialize.Discover(root, a.cfg.Group.Extension)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(rels))
	for i, rel := range rels {
		paths[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return a.runnerFor(paths...)
}

func (a *app) groupExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <dir> <language>...",
		Short: "Export every core file under a directory into one artifact",
		Long: `Export every core file under a directory into one artifact. Files
without localized records are skipped.

The output defaults to the directory path with the format's extension.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := filepath.Clean(args[0])
			f, err := a.exportFormat()
			if err != nil {
				return err
			}
			if out == "" {
				out = root + "." + f.Ext()
			}
			r, err := a.groupRunner(root)
			if err != nil {
				return err
			}
			return r.GroupExport(root, out, args[1:], f, a.cfg.Export.AddLanguageNames)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	cmd.Flags().BoolP("add-language-names", "a", false, "prefix every txt line with its language")
	return cmd
}

func (a *app) groupImportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <dir> <exported>",
		Short: "Apply an edited group artifact to a directory",
		Long: `Apply an edited group artifact to the core files under a directory.
Every updated file is written to the same relative path under the output
directory, which defaults to the input directory path with ".new".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, exported := filepath.Clean(args[0]), args[1]
			f, err := a.importFormat(cmd, exported)
			if err != nil {
				return err
			}
			if out == "" {
				out = root + ".new"
			}
			r, err := a.groupRunner(root)
			if err != nil {
				return err
			}
			return r.GroupImport(root, exported, out, f)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output directory")
	return cmd
}
