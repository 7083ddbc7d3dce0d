package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// cliProgressReporter draws a progress bar on stderr so the digest
// document on stdout stays clean.
type cliProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

func newCLIProgressReporter(quiet bool) *cliProgressReporter {
	return &cliProgressReporter{quiet: quiet}
}

func (c *cliProgressReporter) OnStart(totalFiles int) {
	if c.quiet || totalFiles == 0 {
		return
	}

	c.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Digesting files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (c *cliProgressReporter) OnFileDone(path string) {
	if c.bar != nil {
		c.bar.Add(1)
	}
}

func (c *cliProgressReporter) OnComplete(digested, failed int) {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}
