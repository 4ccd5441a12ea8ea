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
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadItems Phase = iota
	AddItems
	Verify
)

func (p Phase) String() string {
	switch p {
	case ReadItems:
		return "read_items"
	case AddItems:
		return "add_items"
	case Verify:
		return "verify"
	default:
		return ""
	}
}

func startImportUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadItems,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d items with %d workers...", total, workers),
	}
}

func itemAddedUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Item),
		Data:    res,
	}
}

func itemFailedUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Item, res.Err),
		Data:    res,
	}
}

func verifyUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Verify,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Server now holds %d todos", count),
	}
}
