package digest

// ProgressReporter provides callbacks for reporting digest progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnStart is called before any file is processed.
	OnStart(totalFiles int)

	// OnFileDone is called after each file finishes, success or failure.
	// It may be called from multiple goroutines.
	OnFileDone(path string)

	// OnComplete is called once the whole batch is done.
	OnComplete(digested, failed int)
}

// NoOpProgressReporter is a progress reporter that does nothing. Used when
// progress reporting is disabled or no terminal is attached.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnStart(totalFiles int)         {}
func (NoOpProgressReporter) OnFileDone(path string)         {}
func (NoOpProgressReporter) OnComplete(digested, failed int) {}
