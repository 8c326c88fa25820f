package leaderboard

import "rankboard/core"

// Option configures a Board.
type Option func(*Board)

// WithIndex maintains a name to position index so Update finds its record
// in O(1). The index is only used while every name on the board is unique;
// with duplicates the board falls back to a linear scan so the first record
// carrying a name is always the one updated.
func WithIndex() Option { return func(b *Board) { b.indexed = true } }

// Board owns a ranked collection and applies Sort and Update to it.
type Board struct {
	records []*core.Record
	indexed bool
	index   map[string]int // nil when disabled or names are not unique
}

// NewBoard takes ownership of records in their current order.
func NewBoard(records []*core.Record, opts ...Option) *Board {
	b := &Board{}
	for _, o := range opts {
		o(b)
	}
	b.Reset(records)
	return b
}

// Reset replaces the board contents without sorting them.
func (b *Board) Reset(records []*core.Record) {
	b.records = records
	b.rebuildIndex()
}

// Sort performs a full stable sort of the board.
func (b *Board) Sort() {
	Sort(b.records)
	b.rebuildIndex()
}

// Update changes the score for name and repositions the record.
// See the package-level Update for ordering rules.
func (b *Board) Update(name string, score int64) (Move, error) {
	i := b.locate(name)
	if i < 0 {
		return Move{}, core.NotFound(name)
	}
	var onSwap func(a, c int)
	if b.index != nil {
		onSwap = b.patch
	}
	return reposition(b.records, i, score, onSwap), nil
}

// Get returns the standing of the first record named name.
func (b *Board) Get(name string) (Standing, bool) {
	i := b.locate(name)
	if i < 0 {
		return Standing{}, false
	}
	return b.standing(i), true
}

// TopN returns up to n leading standings. n <= 0 yields nil.
func (b *Board) TopN(n int) []Standing {
	if n <= 0 {
		return nil
	}
	if n > len(b.records) {
		n = len(b.records)
	}
	out := make([]Standing, n)
	for i := range out {
		out[i] = b.standing(i)
	}
	return out
}

// Entries returns every standing in board order.
func (b *Board) Entries() []Standing { return b.TopN(len(b.records)) }

// Snapshot returns copies of the records in board order.
func (b *Board) Snapshot() []*core.Record { return core.CloneAll(b.records) }

func (b *Board) Len() int { return len(b.records) }

// Indexed reports whether lookups currently go through the name index.
func (b *Board) Indexed() bool { return b.index != nil }

func (b *Board) standing(i int) Standing {
	r := b.records[i]
	return Standing{Rank: i + 1, Name: r.Name(), Score: r.Score()}
}

func (b *Board) locate(name string) int {
	if b.index == nil {
		return locate(b.records, name)
	}
	if i, ok := b.index[name]; ok {
		return i
	}
	return -1
}

func (b *Board) rebuildIndex() {
	b.index = nil
	if !b.indexed {
		return
	}
	idx := make(map[string]int, len(b.records))
	for i, r := range b.records {
		if _, dup := idx[r.Name()]; dup {
			return
		}
		idx[r.Name()] = i
	}
	b.index = idx
}

func (b *Board) patch(x, y int) {
	b.index[b.records[x].Name()] = x
	b.index[b.records[y].Name()] = y
}
