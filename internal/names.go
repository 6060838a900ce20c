package internal

import (
	"sync"
	"sync/atomic"
)

const (
	nameShards = 16
	// Longer names are returned uncanonicalized
	maxInternedName = 256
)

// NameTable canonicalizes object member names so that repeated names share a
// single string. Each shard has a byte budget; a shard that would exceed it
// drops half of its entries first.
type NameTable struct {
	shards        [nameShards]nameShard
	maxShardBytes int64
	hits          atomic.Int64
	misses        atomic.Int64
	evictions     atomic.Int64
}

type nameShard struct {
	mu    sync.RWMutex
	names map[string]string
	size  int64
}

// NameTableStats describes the contents of a NameTable
type NameTableStats struct {
	Entries   int
	Bytes     int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// GlobalNameTable is shared by every parser that canonicalizes field names
var GlobalNameTable = NewNameTable(4 << 20)

// NewNameTable creates a table holding at most roughly maxBytes of names
func NewNameTable(maxBytes int64) *NameTable {
	per := maxBytes / nameShards
	if per < maxInternedName {
		per = maxInternedName
	}
	return &NameTable{maxShardBytes: per}
}

// Intern returns the canonical string equal to b. Lookups of names already
// in the table do not allocate.
func (t *NameTable) Intern(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if len(b) > maxInternedName {
		return string(b)
	}

	s := &t.shards[shardIndex(b)]
	s.mu.RLock()
	name, ok := s.names[string(b)]
	s.mu.RUnlock()
	if ok {
		t.hits.Add(1)
		return name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.names[string(b)]; ok {
		t.hits.Add(1)
		return name
	}
	if s.names == nil {
		s.names = make(map[string]string, 64)
	}
	if s.size+int64(len(b)) > t.maxShardBytes {
		s.evictHalf()
		t.evictions.Add(1)
	}

	name = string(b)
	s.names[name] = name
	s.size += int64(len(name))
	t.misses.Add(1)
	return name
}

// evictHalf must be called with the shard lock held
func (s *nameShard) evictHalf() {
	target := len(s.names) / 2
	if target < 1 {
		target = 1
	}
	for k := range s.names {
		if target == 0 {
			break
		}
		s.size -= int64(len(k))
		delete(s.names, k)
		target--
	}
}

// Stats returns current table statistics
func (t *NameTable) Stats() NameTableStats {
	st := NameTableStats{
		Hits:      t.hits.Load(),
		Misses:    t.misses.Load(),
		Evictions: t.evictions.Load(),
	}
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		st.Entries += len(s.names)
		st.Bytes += s.size
		s.mu.RUnlock()
	}
	return st
}

// Clear removes all names and resets the counters
func (t *NameTable) Clear() {
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		s.names = nil
		s.size = 0
		s.mu.Unlock()
	}
	t.hits.Store(0)
	t.misses.Store(0)
	t.evictions.Store(0)
}

// shardIndex hashes b with FNV-1a
func shardIndex(b []byte) int {
	h := uint32(2166136261)
	for _, c := range b {
		h ^= uint32(c)
		h *= 16777619
	}
	return int(h % nameShards)
}
