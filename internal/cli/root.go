// Package cli wires the digest pipeline into the code-digest command.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asimihsan/code-digest/internal/cache"
	"github.com/asimihsan/code-digest/internal/config"
	"github.com/asimihsan/code-digest/internal/digest"
	"github.com/asimihsan/code-digest/internal/render"
	"github.com/asimihsan/code-digest/internal/walker"
	"github.com/asimihsan/code-digest/internal/watcher"
)

var (
	cfgFile      string
	verbose      bool
	quietFlag    bool
	watchFlag    bool
	treeFlag     bool
	outputFlag   string
	workersFlag  int
	ignoreFlags  []string
	includeFlags []string
)

// rootCmd is the digest run itself; subcommands cover the rest.
var rootCmd = &cobra.Command{
	Use:   "code-digest [directory]",
	Short: "Digest source trees into compact, still-parseable summaries",
	Long: `code-digest parses source files, keeps declarations and type
definitions verbatim, and replaces function bodies with placeholder
comments. The result is a markdown document a fraction of the size of
the original tree whose code blocks still parse.

Examples:
  # Digest the current directory to stdout
  code-digest

  # Digest a project, skipping generated code
  code-digest ./project -i "gen/**"

  # Carry documentation files through whole
  code-digest -I "**/*.md" -o digest.md

  # Keep the digest fresh as files change
  code-digest -o digest.md --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDigest,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <directory>/.code-digest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringSliceVarP(&ignoreFlags, "ignore", "i", nil, "additional glob patterns to skip (repeatable)")
	rootCmd.Flags().StringSliceVarP(&includeFlags, "include", "I", nil, "glob patterns carried through whole (repeatable)")
	rootCmd.Flags().BoolVarP(&treeFlag, "tree", "t", false, "prepend a directory tree to the output")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the digest to a file instead of stdout")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "rewrite the output file as files change (requires --output)")
	rootCmd.Flags().IntVar(&workersFlag, "workers", 0, "parallel digest workers (0 = one per CPU)")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
}

func runDigest(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling digest...")
		cancel()
	}()

	rootDir := "."
	if len(args) == 1 {
		rootDir = args[0]
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", rootDir)
	}

	cfg, err := loadConfig(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if watchFlag {
		if outputFlag == "" {
			return fmt.Errorf("--watch requires --output")
		}
		return runWatch(ctx, cfg, rootDir)
	}

	return runOnce(ctx, cfg, rootDir, nil)
}

// loadConfig reads the explicit --config file, or searches rootDir.
func loadConfig(rootDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.NewLoader(rootDir).Load()
}

// applyFlags layers command line flags over the loaded configuration.
// Pattern flags append; scalar flags override only when set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	cfg.Ignore = append(cfg.Ignore, ignoreFlags...)
	cfg.Include = append(cfg.Include, includeFlags...)

	flags := cmd.Flags()
	if flags.Changed("tree") {
		cfg.Tree = treeFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
}

// runOnce performs a full walk, digest, and render pass. A non-nil memo
// skips files whose digest is already cached.
func runOnce(ctx context.Context, cfg *config.Config, rootDir string, memo *cache.Memo) error {
	walkStart := time.Now()
	w, err := walker.New(rootDir, cfg.Ignore, cfg.Include)
	if err != nil {
		return err
	}
	files, err := w.Walk()
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}
	if verbose {
		log.Printf("[TIMING] walk: %d files in %v", len(files), time.Since(walkStart))
	}

	opts := digest.Options{
		Workers:        cfg.Workers,
		Overrides:      cfg.Overrides(),
		RawUnsupported: cfg.RawUnsupported(),
		Progress:       newCLIProgressReporter(quietFlag),
	}

	digestStart := time.Now()
	digests, failures := digestWithMemo(ctx, files, opts, memo)
	if verbose {
		log.Printf("[TIMING] digest: %d files in %v", len(digests), time.Since(digestStart))
	}

	var treeListing string
	if cfg.Tree {
		paths := make([]string, len(digests))
		for i, d := range digests {
			paths[i] = d.Path
		}
		treeListing = walker.Tree(paths)
	}

	renderStart := time.Now()
	if err := writeDocument(outputFlag, digests, render.Options{Tree: treeListing}); err != nil {
		return err
	}
	if verbose {
		log.Printf("[TIMING] render: %v", time.Since(renderStart))
	}

	render.Summary(os.Stderr, len(digests), failures)

	if ctx.Err() != nil {
		return fmt.Errorf("digest cancelled")
	}
	if len(failures) > 0 && len(digests) == 0 {
		return fmt.Errorf("all %d files failed", len(failures))
	}
	return nil
}

// runWatch performs an initial pass, then re-digests on every debounced
// change batch until interrupted. The memo carries unchanged files across
// runs so only edited files are re-parsed.
func runWatch(ctx context.Context, cfg *config.Config, rootDir string) error {
	memo, err := cache.New(0)
	if err != nil {
		return err
	}
	defer memo.Close()

	if err := runOnce(ctx, cfg, rootDir, memo); err != nil {
		return err
	}

	w, err := watcher.New(rootDir, cfg.WatchExtensions(), 0)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	rerun := func(changed []string) {
		if verbose {
			log.Printf("%d files changed, re-digesting", len(changed))
		}
		if err := runOnce(ctx, cfg, rootDir, memo); err != nil {
			log.Printf("Warning: digest run failed: %v", err)
			return
		}
		if verbose {
			hits, misses := memo.Stats()
			log.Printf("[TIMING] cache: %d hits, %d misses", hits, misses)
		}
	}
	if err := w.Start(ctx, rerun); err != nil {
		return err
	}

	if !quietFlag {
		log.Printf("Watching %s for changes (Ctrl+C to stop)", rootDir)
	}
	<-ctx.Done()
	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

// writeDocument renders to stdout, or creates/truncates the output file.
func writeDocument(path string, digests []digest.Digest, opts render.Options) error {
	if path == "" {
		return render.Write(os.Stdout, digests, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.Write(f, digests, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
