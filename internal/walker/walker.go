// Package walker discovers the source files a digest run should cover.
//
// Discovery walks a root directory, prunes ignored directories, filters
// files through ignore and include globs, and detects each file's language
// from its extension. The result is a path-sorted list of inputs for the
// digest pipeline.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/asimihsan/code-digest/internal/digest"
	"github.com/asimihsan/code-digest/internal/syntax"
)

// DefaultIgnores covers build output and dependency directories that are
// never worth digesting. The .git directory is skipped unconditionally.
var DefaultIgnores = []string{
	"node_modules/**",
	"vendor/**",
	"target/**",
	"dist/**",
	"build/**",
	"__pycache__/**",
	".idea/**",
	".vscode/**",
}

// compiledPattern holds both the pattern string and compiled glob.
// Patterns that start with **/ also get a root-level variant so that
// "**/*.md" matches "README.md" as users expect.
type compiledPattern struct {
	pattern  string
	glob     glob.Glob
	rootGlob glob.Glob
}

// Walker discovers source files under a root directory.
type Walker struct {
	root    string
	ignore  []compiledPattern
	include []compiledPattern
}

// New creates a walker for root. Ignore patterns exclude files and prune
// directories; include patterns mark files for full-content passthrough.
// Patterns are matched against slash-separated paths relative to root.
func New(root string, ignorePatterns, includePatterns []string) (*Walker, error) {
	ignore, err := compilePatterns("ignore", ignorePatterns)
	if err != nil {
		return nil, err
	}
	include, err := compilePatterns("include", includePatterns)
	if err != nil {
		return nil, err
	}

	return &Walker{
		root:    root,
		ignore:  ignore,
		include: include,
	}, nil
}

func compilePatterns(kind string, patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", kind, pattern, err)
		}

		cp := compiledPattern{pattern: pattern, glob: g}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(rest, '/'); err == nil {
				cp.rootGlob = rg
			}
		}
		compiled = append(compiled, cp)
	}

	return compiled, nil
}

// Walk traverses the tree and returns the digestible files sorted by path.
// Files with a recognized extension are collected for digesting; files
// matching an include pattern are collected with FullInclude set, whatever
// their extension. Everything else is skipped.
func (w *Walker) Walk() ([]digest.SourceFile, error) {
	var files []digest.SourceFile

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if w.shouldSkipDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if w.matchesAny(relPath, w.ignore) {
			return nil
		}

		full := w.matchesAny(relPath, w.include)
		ext := strings.ToLower(filepath.Ext(relPath))
		language, supported := syntax.FromExtension(ext)
		if !supported {
			if !full {
				return nil
			}
			// Unknown language passes through raw; keep the extension as
			// a best-effort tag for rendering.
			language = strings.TrimPrefix(ext, ".")
		}

		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", relPath, readErr)
		}

		files = append(files, digest.SourceFile{
			Path:        relPath,
			Language:    language,
			Source:      source,
			FullInclude: full,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// shouldSkipDir reports whether a directory should be pruned from the walk.
func (w *Walker) shouldSkipDir(relPath string) bool {
	// Always skip version control internals
	if relPath == ".git" || strings.HasSuffix(relPath, "/.git") {
		return true
	}

	if w.matchesAny(relPath, w.ignore) {
		return true
	}

	// A directory also matches patterns written with a /** suffix.
	// For example, "node_modules" should match pattern "node_modules/**".
	return w.matchesAny(relPath+"/**", w.ignore)
}

// matchesAny checks if a path matches any of the given patterns.
func (w *Walker) matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.rootGlob != nil && !strings.Contains(path, "/") && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}
