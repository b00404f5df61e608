// Package session bundles the process-wide state the original program
// kept in globals: a registry of named datasets, the options bag, and
// the logger. It replaces that global mutable state with an explicit
// handle threaded through the command dispatcher (spec.md §9's
// redesign note on "explicit Session over process globals").
package session

import (
	"fmt"

	"github.com/czepiel/mlelr/dataset"
	"github.com/czepiel/mlelr/mlog"
	"github.com/czepiel/mlelr/options"
)

// Session holds every dataset currently registered under a handle, the
// shared option bag, and the logger used by every stage of a fit.
type Session struct {
	Options *options.Options
	Log     *mlog.Logger

	tables map[string]*dataset.Table
}

// New returns an empty Session with default options, logging to log.
func New(log *mlog.Logger) *Session {
	return &Session{
		Options: options.New(),
		Log:     log,
		tables:  make(map[string]*dataset.Table),
	}
}

// Register stores table under handle, overwriting any existing dataset
// with that handle (mirroring the original's add_dataset semantics,
// which always creates a fresh entry rather than merging).
func (s *Session) Register(handle string, table *dataset.Table) {
	s.tables[handle] = table
}

// Lookup returns the dataset registered under handle, or an error if
// none exists.
func (s *Session) Lookup(handle string) (*dataset.Table, error) {
	t, ok := s.tables[handle]
	if !ok {
		return nil, fmt.Errorf("session: no dataset registered under handle %q", handle)
	}
	return t, nil
}

// Handles returns the currently registered dataset handles.
func (s *Session) Handles() []string {
	out := make([]string, 0, len(s.tables))
	for h := range s.tables {
		out = append(out, h)
	}
	return out
}
