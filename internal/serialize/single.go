package serialize

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dloc/internal/fixedmap"
	"github.com/cory-johannsen/dloc/internal/observability"
)

// ExportOptions configures an export.
type ExportOptions[L fixedmap.Key] struct {
	Format    Format
	Languages []L
	// WithNames prefixes each line with its language. Text format only.
	WithNames bool
}

// ImportOptions configures an import.
type ImportOptions struct {
	Format Format
	// Force writes the output even when the import changed nothing.
	Force bool
}

// Single exports and imports one core file.
type Single[L fixedmap.Key] struct {
	title    Title[L]
	logger   *zap.Logger
	reporter observability.Reporter
}

// NewSingle constructs a Single driver for title.
//
// Precondition: logger and reporter must be non-nil.
// Postcondition: returns a non-nil Single.
func NewSingle[L fixedmap.Key](title Title[L], logger *zap.Logger, reporter observability.Reporter) *Single[L] {
	return &Single[L]{title: title, logger: logger, reporter: reporter}
}

// Export writes the localized text of the core file at in to out. The text
// format also writes an envelope to SidecarPath(out).
func (s *Single[L]) Export(in, out string, opts ExportOptions[L]) error {
	start := time.Now()
	p := s.reporter.Start("export "+filepath.Base(in), 1)
	defer p.Done()

	g, err := s.title.OpenFile(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}
	if err := exportGame(g, out, opts); err != nil {
		return err
	}
	p.Step()
	s.logger.Info("exported",
		zap.String("path", in),
		zap.String("out", out),
		zap.String("format", string(opts.Format)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func exportGame[L fixedmap.Key](g Game[L], out string, opts ExportOptions[L]) error {
	if opts.Format == FormatText {
		lines, env := g.ExportLines(opts.Languages, opts.WithNames)
		if err := writeLinesFile(out, lines); err != nil {
			return err
		}
		return writeJSONFile(SidecarPath(out), env)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := encodeDocument(f, opts.Format, g.ExportDocument(opts.Languages)); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	return f.Close()
}

// Import applies the artifact at exported to the core file at in and writes
// the result to out.
//
// Postcondition: returns ErrNothingChanged without writing when the result
// would equal the input and opts.Force is false. Failures while applying the
// artifact are *DeserializeError.
func (s *Single[L]) Import(in, exported, out string, opts ImportOptions) error {
	start := time.Now()
	p := s.reporter.Start("import "+filepath.Base(in), 1)
	defer p.Done()

	g, err := s.title.OpenFile(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}
	before, err := Fingerprint(g)
	if err != nil {
		return err
	}

	if err := importArtifact(g, exported, opts.Format); err != nil {
		return err
	}

	after, err := Fingerprint(g)
	if err != nil {
		return err
	}
	if before == after && !opts.Force {
		return ErrNothingChanged
	}
	if err := writeGame(g, out); err != nil {
		return err
	}
	p.Step()
	s.logger.Info("imported",
		zap.String("path", in),
		zap.String("from", exported),
		zap.String("out", out),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func importArtifact[L fixedmap.Key](g Game[L], exported string, f Format) error {
	if f == FormatText {
		var env Envelope[L]
		if err := readJSONFile(SidecarPath(exported), &env); err != nil {
			return err
		}
		lines, err := readLinesFile(exported)
		if err != nil {
			return err
		}
		return deserializeError(g.ImportLines(lines, env))
	}
	data, err := os.ReadFile(exported)
	if err != nil {
		return err
	}
	return importDocument(g, f, data)
}

func importDocument[L fixedmap.Key](g Game[L], f Format, data []byte) error {
	decode, err := decoder(f, data)
	if err != nil {
		return err
	}
	return deserializeError(g.ImportDocument(decode))
}

func writeGame[L fixedmap.Key](g Game[L], out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = g.Write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

// IsSkippable reports whether err marks a file a group operation skips.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNoLocalResource)
}
