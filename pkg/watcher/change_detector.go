package watcher

// ChangeAnalysis describes what a batch of changes means for the running
// server.
type ChangeAnalysis struct {
	// NeedReload is set when the config file has new content.
	NeedReload bool
	// Removed is set when the config file is gone. The running
	// configuration is kept.
	Removed      bool
	ChangedFiles []string
}

// AnalyzeChanges decides how to react to a debounced change event.
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	switch event.Type {
	case ChangeTypeWrite:
		analysis.NeedReload = true
	case ChangeTypeRemove:
		analysis.Removed = true
	}

	return analysis
}
