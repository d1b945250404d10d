package services

import "sync"

// State is the lock shared by every service that reads or replaces the
// processed document. Writers hold it only for the store swap, so readers
// keep seeing the previous document while a new one is being extracted.
type State struct {
	mu sync.RWMutex
}

// NewState creates the shared lock.
func NewState() *State {
	return &State{}
}
