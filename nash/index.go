package nash

import (
	"encoding/binary"
	"fmt"

	"github.com/opencoff/go-chd"
)

// chdLoadFactor is the library's recommended build density for a key space
// this size; higher values shrink the index at the cost of slower builds.
const chdLoadFactor = 2.0

// index is a minimal perfect hash over the frozen key space, built once at
// table construction. It never needs to answer "not a member" queries:
// every caller-facing lookup first canonicalizes its key (ForStack snaps
// stack depth to a known bucket; Position/Situation are closed enums), so
// every query the table ever receives was part of the build set.
type index struct {
	h       *chd.CHD
	entries []NashAction
}

func buildIndex(keys []string, actions []NashAction) (*index, error) {
	b := chd.NewBuilder()
	for i, k := range keys {
		var val [4]byte
		binary.LittleEndian.PutUint32(val[:], uint32(i))
		b.Add([]byte(k), val[:])
	}

	h, err := b.Freeze(chdLoadFactor)
	if err != nil {
		return nil, fmt.Errorf("nash: building perfect-hash index: %w", err)
	}

	return &index{h: h, entries: actions}, nil
}

func (ix *index) lookup(key string) (NashAction, bool) {
	val := ix.h.Find([]byte(key))
	if val == nil {
		return NashAction{}, false
	}
	i := binary.LittleEndian.Uint32(val)
	if int(i) >= len(ix.entries) {
		return NashAction{}, false
	}
	return ix.entries[i], true
}
