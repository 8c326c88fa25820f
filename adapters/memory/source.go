package memory

import (
	"context"
	"sync"

	"rankboard/core"
)

// Source is an in-memory roster. Each Load hands out fresh copies so the
// board never aliases the seed records.
type Source struct {
	mu      sync.RWMutex
	records []*core.Record
}

func New(records ...*core.Record) *Source {
	return &Source{records: core.CloneAll(records)}
}

// Add appends a record to the roster.
func (s *Source) Add(name string, score int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, core.NewRecord(name, score))
}

func (s *Source) Load(ctx context.Context) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := core.CloneAll(s.records)
	if out == nil {
		out = []*core.Record{}
	}
	return out, nil
}

// SampleRoster returns the eight-student class used by the demo, unsorted.
func SampleRoster() []*core.Record {
	return []*core.Record{
		core.NewRecord("Ayesha", 75),
		core.NewRecord("Thilina", 82),
		core.NewRecord("Nimasha", 68),
		core.NewRecord("Sahan", 90),
		core.NewRecord("Dilki", 78),
		core.NewRecord("Kamal", 85),
		core.NewRecord("Rashmi", 72),
		core.NewRecord("Dinesh", 88),
	}
}

var _ interface {
	Load(context.Context) ([]*core.Record, error)
} = (*Source)(nil)
