package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdfsplit/rdf"
)

// progressInterval is how often the statement loop reports progress on
// large inputs, at debug level.
const progressInterval = 100000

// Options controls a split run.
type Options struct {
	// OutputDir receives the chunk files. Empty means the directory of
	// each input file.
	OutputDir string
	// Mode selects the distribution strategy.
	Mode Mode
	// Force overwrites existing chunk files and creates a missing
	// output directory.
	Force bool
	// Parallel caps the number of inputs processed concurrently.
	// Values below 1 mean sequential.
	Parallel int
	// Logger receives progress output. Nil means slog.Default().
	Logger *slog.Logger
}

// ChunkDescriptor records one written chunk file.
type ChunkDescriptor struct {
	Path  string
	Index int
	Count int
}

// FileResult summarizes the split of one input file.
type FileResult struct {
	Input  string
	Format rdf.Format
	Total  int
	Chunks []ChunkDescriptor
}

// Result aggregates a batch run. A failed input lands in Errors and
// the remaining inputs are still processed.
type Result struct {
	Files  []FileResult
	Errors []*FileError
}

// OK reports whether every input split cleanly.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Run splits every input, processing up to Parallel files at once.
// Per-file failures are collected into the result; only option errors
// and context cancellation abort the batch.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Parallel
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	result := &Result{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := SplitFile(gctx, path, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				var fileErr *FileError
				if !errors.As(err, &fileErr) {
					fileErr = &FileError{Path: path, Err: err}
				}
				logger.Error("split failed", "input", path, "error", err)
				result.Errors = append(result.Errors, fileErr)
				return nil
			}
			result.Files = append(result.Files, *res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Input < result.Files[j].Input })
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Path < result.Errors[j].Path })
	return result, nil
}

// SplitFile splits one input into chunk files. File-count mode makes a
// counting pass first, so chunk sizes and the full preamble are known
// before the first chunk opens. On a mid-file failure the partially
// written chunk is removed; chunks closed before the failure stay.
func SplitFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format, err := rdf.FormatForPath(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := ensureOutputDir(outDir, opts.Force); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	// frozen is the counting pass preamble; chunk-size mode instead
	// snapshots the live preamble as each chunk opens.
	var frozen *rdf.Preamble
	var sizes []int
	if opts.Mode.Counting() {
		total, preamble, err := countStatements(path, format)
		if err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
		if total == 0 {
			logger.Info("input holds no statements, writing no chunks", "input", path)
			return &FileResult{Input: path, Format: format}, nil
		}
		sizes = plan(total, opts.Mode)
		frozen = &preamble
	}

	src, err := openSource(path, format)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer src.Close()

	out := newChunkOutput(outDir, path, format, opts.Force)
	total := 0
	filled := 0
	for {
		stmt, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.abort()
			return nil, &FileError{Path: path, Err: err}
		}
		if total%1024 == 0 {
			if err := ctx.Err(); err != nil {
				out.abort()
				return nil, err
			}
		}
		if !out.opened() {
			if sizes != nil && out.index >= len(sizes) {
				out.abort()
				return nil, &FileError{Path: path, Err: fmt.Errorf("input grew between counting and splitting passes")}
			}
			var preamble rdf.Preamble
			if frozen != nil {
				preamble = frozen.Clone()
			} else {
				preamble = src.Preamble().Clone()
			}
			if err := out.start(preamble); err != nil {
				out.abort()
				return nil, &FileError{Path: path, Err: err}
			}
		}
		if err := out.write(stmt); err != nil {
			out.abort()
			return nil, &FileError{Path: path, Err: err}
		}
		total++
		filled++
		if total%progressInterval == 0 {
			logger.Debug("split progress",
				"input", path,
				"statements", total,
				"chunks", len(out.chunks))
		}
		capacity := opts.Mode.chunkSize
		if sizes != nil {
			capacity = sizes[out.index]
		}
		if filled == capacity {
			if err := out.finish(); err != nil {
				out.abort()
				return nil, &FileError{Path: path, Err: err}
			}
			filled = 0
		}
	}
	if err := out.finish(); err != nil {
		out.abort()
		return nil, &FileError{Path: path, Err: err}
	}

	logger.Info("split complete",
		"input", path,
		"format", format.Label(),
		"statements", total,
		"chunks", len(out.chunks))
	return &FileResult{Input: path, Format: format, Total: total, Chunks: out.chunks}, nil
}

func ensureOutputDir(dir string, force bool) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	if !force {
		return fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
	}
	return os.MkdirAll(dir, 0o755)
}

// chunkOutput manages the chunk file currently being written and the
// descriptors of the chunks finished so far.
type chunkOutput struct {
	dir    string
	stem   string
	ext    string
	format rdf.Format
	force  bool

	index  int
	count  int
	file   *os.File
	writer rdf.Writer
	chunks []ChunkDescriptor
}

func newChunkOutput(dir, inputPath string, format rdf.Format, force bool) *chunkOutput {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return &chunkOutput{
		dir:    dir,
		stem:   strings.TrimSuffix(base, ext),
		ext:    ext,
		format: format,
		force:  force,
	}
}

// path returns the chunk file name for an index: stem, a zero-padded
// four digit ordinal, and the input's extension with its case kept.
func (o *chunkOutput) path(index int) string {
	return filepath.Join(o.dir, fmt.Sprintf("%s_%04d%s", o.stem, index, o.ext))
}

func (o *chunkOutput) opened() bool { return o.writer != nil }

func (o *chunkOutput) start(preamble rdf.Preamble) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if o.force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	path := o.path(o.index)
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}
	writer, err := rdf.NewWriter(file, o.format, preamble)
	if err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	o.file = file
	o.writer = writer
	o.count = 0
	return nil
}

func (o *chunkOutput) write(s rdf.Statement) error {
	if err := o.writer.Write(s); err != nil {
		return err
	}
	o.count++
	return nil
}

// finish closes the current chunk, if any, and records its descriptor.
func (o *chunkOutput) finish() error {
	if o.writer == nil {
		return nil
	}
	werr := o.writer.Close()
	ferr := o.file.Close()
	if werr == nil {
		werr = ferr
	}
	if werr != nil {
		return werr
	}
	o.chunks = append(o.chunks, ChunkDescriptor{Path: o.path(o.index), Index: o.index, Count: o.count})
	o.writer = nil
	o.file = nil
	o.index++
	return nil
}

// abort discards the chunk currently being written. Chunks already
// closed stay on disk; a mid-file failure is fail-fast, not
// transactional.
func (o *chunkOutput) abort() {
	if o.writer == nil {
		return
	}
	o.writer.Close()
	o.file.Close()
	os.Remove(o.path(o.index))
	o.writer = nil
	o.file = nil
}
