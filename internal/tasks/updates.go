package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchUsers Phase = iota
	ExportCatalog
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchUsers:
		return "fetch_users"
	case ExportCatalog:
		return "export_catalog"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchUsersUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchUsers, Step: 1, Total: 1, Message: "Fetching users..."}
}

func exportCompletedUpdate(step, total int, name string, moviesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d movies)", step, total, name, moviesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func writeManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: fmt.Sprintf("Writing manifest to %s", path)}
}
