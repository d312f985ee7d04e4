package config

import (
	"sync/atomic"

	"github.com/alexanderramin/braindump/internal/scheduler"
)

// Store publishes the current scheduler options to concurrent readers.
// A plan generation reads Options once and uses that snapshot throughout.
type Store struct {
	current atomic.Pointer[scheduler.Options]
}

func NewStore(opts scheduler.Options) *Store {
	s := &Store{}
	s.Set(opts)
	return s
}

func (s *Store) Options() scheduler.Options {
	return *s.current.Load()
}

func (s *Store) Set(opts scheduler.Options) {
	opts.Capacity = opts.Capacity.Clone()
	s.current.Store(&opts)
}
