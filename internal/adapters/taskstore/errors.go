package taskstore

import "errors"

// Sentinel kinds for task persistence errors.
var (
	ErrOpen = errors.New("failed to open task store")
	ErrSave = errors.New("failed to save task")
	ErrList = errors.New("failed to list tasks")
)
