package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the address column is hidden.
	LayoutCompactWidth = 70

	// ModalWidth is the width of the help and confirmation overlays.
	ModalWidth = 48
)

// Log display limits.
const (
	// LogTailLines is how many lines of the client log the logs view keeps.
	LogTailLines = 400
)

// Timing constants.
const (
	// LogRefreshInterval is how often the logs view rereads the file.
	LogRefreshInterval = 2 * time.Second

	// FlashDuration is how long a transient message stays in the footer.
	FlashDuration = 4 * time.Second
)
