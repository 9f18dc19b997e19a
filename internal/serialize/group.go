package serialize

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/observability"
)

// GroupEnvelope is the sidecar of a group line list. Each file's lines are
// the Range of the whole list; InnerInfo is the file's own envelope, with
// ranges relative to that Range.
type GroupEnvelope[L fixedmap.Key] struct {
	Languages        []L           `json:"languages"`
	AddLanguageNames bool          `json:"add_language_names"`
	Count            int           `json:"count"`
	Info             []FileSpan[L] `json:"info"`
}

// FileSpan locates the lines of one file in a group line list.
type FileSpan[L fixedmap.Key] struct {
	Path      string      `json:"path"`
	Range     Range       `json:"range"`
	InnerInfo Envelope[L] `json:"inner_info"`
}

// Discover returns the slash-separated paths, relative to root, of every
// regular file under root whose extension is ext, in lexical order.
//
// Postcondition: returns ErrNoFileFound when nothing matches.
func Discover(root, ext string) ([]string, error) {
	suffix := "." + strings.TrimPrefix(ext, ".")
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || filepath.Ext(p) != suffix {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s files under %s: %w", suffix, root, ErrNoFileFound)
	}
	slices.Sort(paths)
	return paths, nil
}

// Group exports and imports every core file under a directory as one batch.
// Files without localized records are skipped; any other failure aborts the
// batch, keeping the outputs already written.
type Group[L fixedmap.Key] struct {
	title    Title[L]
	ext      string
	logger   *zap.Logger
	reporter observability.Reporter
}

// NewGroup constructs a Group driver for title over files with extension ext.
//
// Precondition: logger and reporter must be non-nil; ext is non-empty.
// Postcondition: returns a non-nil Group.
func NewGroup[L fixedmap.Key](title Title[L], ext string, logger *zap.Logger, reporter observability.Reporter) *Group[L] {
	return &Group[L]{title: title, ext: ext, logger: logger, reporter: reporter}
}

func (g *Group[L]) discover(root string) ([]string, error) {
	start := time.Now()
	paths, err := Discover(root, g.ext)
	if err != nil {
		return nil, err
	}
	g.logger.Info("file list generated",
		zap.String("root", root),
		zap.Int("count", len(paths)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if len(paths) == 1 {
		g.logger.Warn("only one file found, single mode may suit better", zap.String("path", paths[0]))
	}
	return paths, nil
}

// open parses root/rel. A nil Game with a nil error means the file is skipped.
func (g *Group[L]) open(root, rel string) (Game[L], error) {
	game, err := g.title.OpenFile(filepath.Join(root, filepath.FromSlash(rel)))
	if IsSkippable(err) {
		g.logger.Debug("skipping file", zap.String("path", rel), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", rel, err)
	}
	return game, nil
}

// Export writes one artifact for every core file under root to out.
func (g *Group[L]) Export(root, out string, opts ExportOptions[L]) error {
	paths, err := g.discover(root)
	if err != nil {
		return err
	}
	p := g.reporter.Start("export "+filepath.Base(root), len(paths))
	defer p.Done()

	opts.Languages = Languages(opts.Languages)
	docs := make(map[string]any)
	env := GroupEnvelope[L]{Languages: opts.Languages, AddLanguageNames: opts.WithNames}
	var all []string

	for _, rel := range paths {
		game, err := g.open(root, rel)
		if err != nil {
			return err
		}
		if game != nil {
			if opts.Format == FormatText {
				lines, inner := game.ExportLines(opts.Languages, opts.WithNames)
				env.Info = append(env.Info, FileSpan[L]{
					Path:      rel,
					Range:     Range{Start: len(all), End: len(all) + len(lines)},
					InnerInfo: inner,
				})
				all = append(all, lines...)
			} else {
				docs[rel] = game.ExportDocument(opts.Languages)
			}
		}
		p.Step()
	}

	if opts.Format == FormatText {
		env.Count = len(all)
		if err := writeLinesFile(out, all); err != nil {
			return err
		}
		if err := writeJSONFile(SidecarPath(out), env); err != nil {
			return err
		}
		g.logger.Info("lines written", zap.String("out", out), zap.Int("count", len(all)), zap.Int("files", len(env.Info)))
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := encodeDocument(f, opts.Format, docs); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	g.logger.Info("document written", zap.String("out", out), zap.Int("files", len(docs)))
	return nil
}

// Import applies the group artifact at exported to the core files under root,
// writing every updated file to the same relative path under outDir. Entries
// naming files that are not under root are ignored.
func (g *Group[L]) Import(root, exported, outDir string, opts ImportOptions) error {
	paths, err := g.discover(root)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(paths))
	for _, rel := range paths {
		known[rel] = true
	}

	var jobs []groupJob[L]
	if opts.Format == FormatText {
		jobs, err = textJobs[L](exported)
	} else {
		jobs, err = documentJobs[L](exported, opts.Format)
	}
	if err != nil {
		return err
	}

	p := g.reporter.Start("import "+filepath.Base(root), len(jobs))
	defer p.Done()

	written := 0
	for _, job := range jobs {
		rel := path.Clean(job.path)
		if !known[rel] {
			g.logger.Debug("not in input directory, skipping", zap.String("path", job.path))
			p.Step()
			continue
		}
		game, err := g.open(root, rel)
		if err != nil {
			return err
		}
		if game != nil {
			if err := job.apply(game); err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			dst := filepath.Join(outDir, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := writeGame(game, dst); err != nil {
				return err
			}
			written++
		}
		p.Step()
	}
	g.logger.Info("group imported", zap.String("out", outDir), zap.Int("written", written), zap.Int("entries", len(jobs)))
	return nil
}

// groupJob is the update for one file of a group artifact.
type groupJob[L fixedmap.Key] struct {
	path  string
	apply func(Game[L]) error
}

func documentJobs[L fixedmap.Key](exported string, f Format) ([]groupJob[L], error) {
	data, err := os.ReadFile(exported)
	if err != nil {
		return nil, err
	}
	docs, err := splitGroupDocument(f, data)
	if err != nil {
		return nil, deserializeError(fmt.Errorf("decoding %s: %w", exported, err))
	}
	jobs := make([]groupJob[L], 0, len(docs))
	for _, rel := range slices.Sorted(maps.Keys(docs)) {
		doc := docs[rel]
		jobs = append(jobs, groupJob[L]{
			path:  rel,
			apply: func(game Game[L]) error { return importDocument(game, f, doc) },
		})
	}
	return jobs, nil
}

func textJobs[L fixedmap.Key](exported string) ([]groupJob[L], error) {
	var env GroupEnvelope[L]
	if err := readJSONFile(SidecarPath(exported), &env); err != nil {
		return nil, err
	}
	lines, err := readLinesFile(exported)
	if err != nil {
		return nil, err
	}
	if len(lines) != env.Count {
		return nil, deserializeError(&LineCountError{Expected: env.Count, Got: len(lines)})
	}
	jobs := make([]groupJob[L], 0, len(env.Info))
	for _, span := range env.Info {
		r := span.Range
		if r.Start < 0 || r.Start > r.End || r.End > len(lines) {
			return nil, deserializeError(fmt.Errorf("%s: %w", span.Path, &RangeError{Start: r.Start, End: r.End, Max: len(lines)}))
		}
		seg := lines[r.Start:r.End]
		inner := span.InnerInfo
		jobs = append(jobs, groupJob[L]{
			path:  span.Path,
			apply: func(game Game[L]) error { return deserializeError(game.ImportLines(seg, inner)) },
		})
	}
	return jobs, nil
}
