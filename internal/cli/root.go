// Package cli builds the dloc command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dloc/internal/config"
	"github.com/cory-johannsen/dloc/internal/game/detect"
	"github.com/cory-johannsen/dloc/internal/game/ds"
	"github.com/cory-johannsen/dloc/internal/game/hzd"
	"github.com/cory-johannsen/dloc/internal/observability"
	"github.com/cory-johannsen/dloc/internal/serialize"
)

// localKeys maps subcommand flags onto configuration keys. They are bound
// when the command runs, since several commands share a key.
var localKeys = map[string]string{
	"add-language-names": "export.add_language_names",
	"dont-skip":          "import.dont_skip",
	"ext":                "group.extension",
}

type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	logger     *zap.Logger
	ownLogger  bool
	out        io.Writer
}

// NewRootCommand returns the dloc command. Command results go to out. When
// logger is nil one is built from the loaded configuration.
//
// Postcondition: returns a non-nil *cobra.Command.
func NewRootCommand(out io.Writer, logger *zap.Logger) *cobra.Command {
	a := &app{v: config.NewViper(), logger: logger, out: out}

	root := &cobra.Command{
		Use:   "dloc",
		Short: "Export and import the localized text of Decima core files",
		Long: `dloc extracts the localized strings of Horizon Zero Dawn and Death Stranding
core files into JSON, YAML or plain text, and writes edited text back.

The game is detected from the record magics unless --game is given.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.ownLogger {
				_ = a.logger.Sync()
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	pf.String("game", "auto", "game: auto, hzd or ds")
	pf.String("format", "json", "interchange format: json, yaml or txt")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: console or json")
	for flag, key := range map[string]string{
		"game":       "game",
		"format":     "export.format",
		"log-level":  "logging.level",
		"log-format": "logging.format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(a.singleCommand(), a.groupCommand(), a.languagesCommand())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for flag, key := range localKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if err := config.ReadFile(a.v, a.configPath); err != nil {
		return err
	}
	cfg, err := config.LoadFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		a.logger = logger
		a.ownLogger = true
	}
	return nil
}

// runnerFor returns the runner of the configured game, detecting it from
// paths when the game is "auto".
func (a *app) runnerFor(paths ...string) (runner, error) {
	game := a.cfg.Game
	if game == "auto" {
		results := make([]detect.Game, 0, len(paths))
		for _, p := range paths {
			g, err := detect.File(p)
			if err != nil {
				return nil, err
			}
			results = append(results, g)
		}
		g := detect.Combine(results...)
		if err := g.Err(); err != nil {
			return nil, err
		}
		game = g.String()
		a.logger.Debug("game detected", zap.String("game", game), zap.Int("files", len(paths)))
	}
	return a.runnerNamed(game)
}

func (a *app) runnerNamed(game string) (runner, error) {
	switch game {
	case hzd.Title.Name:
		return newDriver(hzd.Title, a.cfg.Group.Extension, a.logger), nil
	case ds.Title.Name:
		return newDriver(ds.Title, a.cfg.Group.Extension, a.logger), nil
	}
	return nil, fmt.Errorf("unknown game %q", game)
}

func (a *app) exportFormat() (serialize.Format, error) {
	return serialize.ParseFormat(a.cfg.Export.Format)
}

// importFormat returns the format of an exported artifact: the --format flag
// when given, otherwise the artifact's extension.
func (a *app) importFormat(cmd *cobra.Command, exported string) (serialize.Format, error) {
	if cmd.Flags().Changed("format") {
		return serialize.ParseFormat(a.cfg.Export.Format)
	}
	return serialize.FormatFromPath(exported)
}

// unchanged downgrades ErrNothingChanged to a warning.
func (a *app) unchanged(err error, in string) error {
	if errors.Is(err, serialize.ErrNothingChanged) {
		a.logger.Warn(err.Error(), zap.String("path", in))
		return nil
	}
	return err
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
