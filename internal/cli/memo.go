package cli

import (
	"context"
	"sort"

	"github.com/asimihsan/code-digest/internal/cache"
	"github.com/asimihsan/code-digest/internal/digest"
	"github.com/asimihsan/code-digest/internal/syntax"
)

// digestWithMemo partitions files into memo hits and misses, digests the
// misses, and memoizes their results. A nil memo digests everything.
func digestWithMemo(ctx context.Context, files []digest.SourceFile, opts digest.Options, memo *cache.Memo) ([]digest.Digest, []digest.FileError) {
	if memo == nil {
		return digest.Tree(ctx, files, opts)
	}

	fps := newFingerprints(opts.Overrides)
	keys := make(map[string]string, len(files))
	var cached []digest.Digest
	var misses []digest.SourceFile

	for _, file := range files {
		fp := fps.of(file)
		if fp == "" {
			misses = append(misses, file)
			continue
		}

		key := cache.Key(file.Source, file.Language, fp)
		if text, ok := memo.Get(key); ok {
			cached = append(cached, digest.Digest{Path: file.Path, Language: file.Language, Text: text})
			continue
		}
		keys[file.Path] = key
		misses = append(misses, file)
	}

	digests, failures := digest.Tree(ctx, misses, opts)

	for _, d := range digests {
		if key, ok := keys[d.Path]; ok {
			memo.Put(key, d.Text)
		}
	}

	merged := append(digests, cached...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Path < merged[j].Path })
	return merged, failures
}

// fingerprints caches per-language rule fingerprints for memo keys.
// Full-include files resolve with the keep-all override prepended, so
// their fingerprint differs from normally digested files of the same
// language; raw passthrough files share a constant fingerprint.
type fingerprints struct {
	overrides map[string][]digest.Rule
	resolved  map[string]string
}

func newFingerprints(overrides map[string][]digest.Rule) *fingerprints {
	return &fingerprints{overrides: overrides, resolved: make(map[string]string)}
}

func (f *fingerprints) of(file digest.SourceFile) string {
	key := file.Language
	if file.FullInclude {
		key = "full:" + file.Language
	}
	if fp, ok := f.resolved[key]; ok {
		return fp
	}

	fp := f.resolve(file)
	f.resolved[key] = fp
	return fp
}

func (f *fingerprints) resolve(file digest.SourceFile) string {
	if !syntax.Supported(file.Language) {
		return "raw"
	}

	overrides := f.overrides[file.Language]
	if file.FullInclude {
		overrides = append([]digest.Rule{digest.KeepAll}, overrides...)
	}

	rules, err := digest.Resolve(file.Language, overrides)
	if err != nil {
		// Config is validated before any run; a failure here will fail in
		// the pipeline too, and failures are never cached.
		return ""
	}
	return rules.Fingerprint()
}
