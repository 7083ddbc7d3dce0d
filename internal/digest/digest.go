// Package digest turns source files into compact digests: declarations and
// signatures survive verbatim, function bodies collapse to a placeholder,
// and everything is spliced back together byte-exactly from the original
// text. Each file's pipeline is parse, match, reconstruct; files never share
// state, so batches parallelize freely.
package digest

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/asimihsan/code-digest/internal/syntax"
)

// SourceFile is one unit of work: a file's bytes plus its declared language.
// FullInclude marks files matched by an include pattern; Tree emits those
// whole, either through the KeepAll override or, for languages without an
// adapter, as a raw passthrough.
type SourceFile struct {
	Path        string
	Language    string
	Source      []byte
	FullInclude bool
}

// Digest is the reconstructed text for one file.
type Digest struct {
	Path     string
	Language string
	Text     string
}

// Options configures a batch run. The zero value digests sequentially with
// default rules and fails files whose language has no adapter.
type Options struct {
	// Workers caps concurrent file pipelines; 0 means NumCPU.
	Workers int

	// Overrides holds per-language rules layered above the defaults.
	Overrides map[string][]Rule

	// RawUnsupported passes files with an unregistered language through
	// verbatim instead of failing them with ErrorUnsupported.
	RawUnsupported bool

	// Progress receives batch callbacks; nil disables reporting.
	Progress ProgressReporter
}

// File digests a single file: resolve rules, parse, match, reconstruct.
// Failures come back as a *FileError tagged with the path and taxonomy kind;
// a failed file never yields partial digest text.
func File(ctx context.Context, file SourceFile, overrides []Rule) (Digest, error) {
	if err := ctx.Err(); err != nil {
		return Digest{}, &FileError{Path: file.Path, Kind: ErrorCancelled, Err: err}
	}

	rules, err := Resolve(file.Language, overrides)
	if err != nil {
		return Digest{}, fileError(file.Path, err)
	}

	adapter, _ := syntax.Lookup(file.Language)

	root, err := adapter.Parse(file.Source)
	if err != nil {
		return Digest{}, fileError(file.Path, err)
	}

	if err := ctx.Err(); err != nil {
		return Digest{}, &FileError{Path: file.Path, Kind: ErrorCancelled, Err: err}
	}

	decisions, err := MatchAll(root, rules)
	if err != nil {
		return Digest{}, fileError(file.Path, err)
	}

	return Digest{
		Path:     file.Path,
		Language: file.Language,
		Text:     Reconstruct(file.Source, decisions, adapter.Placeholder()),
	}, nil
}

// Tree digests a batch of files with a bounded worker pool. Output order is
// deterministic: digests and failures are both sorted by path, regardless of
// scheduling. Cancellation stops dispatch of new files; files never started
// are reported as cancelled, finished results stay valid.
func Tree(ctx context.Context, files []SourceFile, opts Options) ([]Digest, []FileError) {
	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgressReporter{}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	progress.OnStart(len(files))

	outcomes := make([]outcome, len(files))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			outcomes[i] = outcome{err: &FileError{Path: file.Path, Kind: ErrorCancelled, Err: err}}
			continue
		}

		g.Go(func() error {
			outcomes[i] = digestOne(ctx, file, opts)
			progress.OnFileDone(file.Path)
			return nil
		})
	}

	// Workers report through outcomes, never through errors.
	_ = g.Wait()

	var digests []Digest
	var failures []FileError
	for _, o := range outcomes {
		if o.err != nil {
			failures = append(failures, *o.err)
			continue
		}
		digests = append(digests, o.digest)
	}

	sort.Slice(digests, func(i, j int) bool { return digests[i].Path < digests[j].Path })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })

	progress.OnComplete(len(digests), len(failures))

	return digests, failures
}

type outcome struct {
	digest Digest
	err    *FileError
}

// digestOne applies the include and unsupported-language policies around the
// single-file pipeline.
func digestOne(ctx context.Context, file SourceFile, opts Options) outcome {
	if !syntax.Supported(file.Language) && (file.FullInclude || opts.RawUnsupported) {
		return outcome{digest: Digest{
			Path:     file.Path,
			Language: file.Language,
			Text:     string(file.Source),
		}}
	}

	overrides := opts.Overrides[file.Language]
	if file.FullInclude {
		overrides = append([]Rule{KeepAll}, overrides...)
	}

	d, err := File(ctx, file, overrides)
	if err != nil {
		return outcome{err: fileError(file.Path, err)}
	}
	return outcome{digest: d}
}

// fileError wraps err as a *FileError with its taxonomy kind, passing
// through errors already tagged.
func fileError(path string, err error) *FileError {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe
	}
	return &FileError{Path: path, Kind: errorKind(err), Err: err}
}

// errorKind places an error in the failure taxonomy.
func errorKind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnsupportedLanguage):
		return ErrorUnsupported
	case errors.Is(err, ErrConflictingDecisions), errors.Is(err, ErrInvalidRule):
		return ErrorConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCancelled
	}

	// Anything else came out of the parse stage as a *syntax.ParseError.
	return ErrorParse
}
