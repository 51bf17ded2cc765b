package render

import "sync"

// Store accumulates rendered pages in memory. It is append only until
// Reset and safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	plots [][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a copy of data.
func (s *Store) Append(data []byte) {
	cp := append([]byte(nil), data...)
	s.mu.Lock()
	s.plots = append(s.plots, cp)
	s.mu.Unlock()
}

// Plots returns a deep copy of every stored page in append order.
func (s *Store) Plots() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.plots))
	for i, p := range s.plots {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// Reset drops every stored page.
func (s *Store) Reset() {
	s.mu.Lock()
	s.plots = nil
	s.mu.Unlock()
}

// Len returns the number of stored pages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plots)
}

var defaultStore = NewStore()

// DefaultStore returns the process-wide store.
func DefaultStore() *Store { return defaultStore }

// StorePlot appends data to the process-wide store.
func StorePlot(data []byte) { defaultStore.Append(data) }

// GetPlots returns a copy of the process-wide store.
func GetPlots() [][]byte { return defaultStore.Plots() }

// ResetPlots empties the process-wide store.
func ResetPlots() { defaultStore.Reset() }
