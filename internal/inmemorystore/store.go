// Package inmemorystore holds the live build status of every genome in a
// run. It is written by the status tracker from worker goroutines and read
// by the status server; build results never flow through it.
package inmemorystore

import (
	"sort"
	"sync"
	"time"
)

// Status is the coarse state of one genome build.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is a point-in-time copy of a genome's build state.
type Record struct {
	Label   string    `json:"label"`
	Species string    `json:"species,omitempty"`
	Status  Status    `json:"status"`
	Stage   string    `json:"stage,omitempty"`
	Error   string    `json:"error,omitempty"`
	Stages  int       `json:"stages"`
	Updated time.Time `json:"updated"`
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

// Store is safe for concurrent use. Each label owns its own entry so
// workers updating different genomes never contend.
type Store struct {
	entries sync.Map // Key: genome label, Value: *entry
	now     func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) entry(label string) *entry {
	v, _ := s.entries.LoadOrStore(label, &entry{rec: Record{Label: label, Status: StatusPending}})
	return v.(*entry)
}

// Update applies fn to the record for label under the entry lock,
// creating a pending record first if none exists.
func (s *Store) Update(label string, fn func(*Record)) {
	e := s.entry(label)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.rec)
	e.rec.Label = label
	e.rec.Updated = s.now()
}

// Get returns a copy of the record for label.
func (s *Store) Get(label string) (Record, bool) {
	v, ok := s.entries.Load(label)
	if !ok {
		return Record{}, false
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, true
}

// Snapshot returns copies of every record, sorted by label.
func (s *Store) Snapshot() []Record {
	var out []Record
	s.entries.Range(func(_, v any) bool {
		e := v.(*entry)
		e.mu.Lock()
		out = append(out, e.rec)
		e.mu.Unlock()
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
