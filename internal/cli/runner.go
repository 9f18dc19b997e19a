package cli

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/observability"
	"github.com/cory-johannsen/dloc/internal/serialize"
)

// runner performs every operation for one title, hiding its language type.
type runner interface {
	Name() string
	Languages() []string
	SingleExport(in, out string, langs []string, f serialize.Format, withNames bool) error
	SingleImport(in, exported, out string, f serialize.Format, force bool) error
	GroupExport(root, out string, langs []string, f serialize.Format, withNames bool) error
	GroupImport(root, exported, outDir string, f serialize.Format) error
}

type driver[L fixedmap.Key] struct {
	title    serialize.Title[L]
	ext      string
	logger   *zap.Logger
	reporter observability.Reporter
}

func newDriver[L fixedmap.Key](title serialize.Title[L], ext string, logger *zap.Logger) *driver[L] {
	logger = logger.With(zap.String("game", title.Name))
	return &driver[L]{
		title:    title,
		ext:      ext,
		logger:   logger,
		reporter: observability.NewLogReporter(logger),
	}
}

func (d *driver[L]) Name() string { return d.title.Name }

func (d *driver[L]) Languages() []string {
	langs := d.title.Languages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.String()
	}
	return names
}

func (d *driver[L]) SingleExport(in, out string, langs []string, f serialize.Format, withNames bool) error {
	sel, err := serialize.ParseLanguages[L](langs)
	if err != nil {
		return err
	}
	s := serialize.NewSingle(d.title, d.logger, d.reporter)
	return s.Export(in, out, serialize.ExportOptions[L]{Format: f, Languages: sel, WithNames: withNames})
}

func (d *driver[L]) SingleImport(in, exported, out string, f serialize.Format, force bool) error {
	s := serialize.NewSingle(d.title, d.logger, d.reporter)
	return s.Import(in, exported, out, serialize.ImportOptions{Format: f, Force: force})
}

func (d *driver[L]) GroupExport(root, out string, langs []string, f serialize.Format, withNames bool) error {
	sel, err := serialize.ParseLanguages[L](langs)
	if err != nil {
		return err
	}
	g := serialize.NewGroup(d.title, d.ext, d.logger, d.reporter)
	return g.Export(root, out, serialize.ExportOptions[L]{Format: f, Languages: sel, WithNames: withNames})
}

func (d *driver[L]) GroupImport(root, exported, outDir string, f serialize.Format) error {
	g := serialize.NewGroup(d.title, d.ext, d.logger, d.reporter)
	return g.Import(root, exported, outDir, serialize.ImportOptions{Format: f})
}
