package tt

import (
	"sync/atomic"
	"unsafe"

	"github.com/caroengine/core/internal/board"
)

// lfNode is one published record. A reader takes one atomic snapshot of the
// pointer and validates hash == expected before trusting it; a torn read (a
// concurrent writer mid-publish) is simply treated as a miss, since the
// pointer itself is always published as a whole (spec.md §4.8).
type lfNode struct {
	hash  uint64
	value int32
	bound Bound
	depth int8
	move  board.Move
	age   uint8
}

type shard struct {
	slots []unsafe.Pointer
	mask  uint64
}

// LockFreeTT is the parallel transposition table of spec.md §4.8: sharded by
// the high 32 bits of the hash, with atomic single-pointer-per-slot writes
// and no locks anywhere. Occasional lost writes under contention are
// acceptable, per spec.
type LockFreeTT struct {
	shards    []shard
	shardMask uint64
}

// NewLockFreeTT allocates a table of roughly sizeMB megabytes split across
// numShards shards (numShards must be a power of two; default 16).
func NewLockFreeTT(sizeMB, numShards int) *LockFreeTT {
	if numShards <= 0 {
		numShards = 16
	}
	numShards = int(nextPow2(uint64(numShards)))

	const bytesPerNode = 32
	perShardBytes := (uint64(sizeMB) << 20) / uint64(numShards)
	slots := nextPow2(perShardBytes / bytesPerNode)
	if slots == 0 {
		slots = 1
	}

	shards := make([]shard, numShards)
	for i := range shards {
		shards[i] = shard{slots: make([]unsafe.Pointer, slots), mask: slots - 1}
	}
	return &LockFreeTT{shards: shards, shardMask: uint64(numShards) - 1}
}

func (t *LockFreeTT) shardAndSlot(hash uint64) (*shard, uint64) {
	sh := &t.shards[(hash>>32)&t.shardMask]
	return sh, hash & sh.mask
}

// Load returns the entry for hash, if a live, validated one is present.
func (t *LockFreeTT) Load(hash uint64) (Entry, bool) {
	sh, idx := t.shardAndSlot(hash)
	addr := &sh.slots[idx]

	ptr := (*lfNode)(atomic.LoadPointer(addr))
	if ptr == nil || ptr.hash != hash {
		return Entry{}, false
	}
	return Entry{
		Key16: top16(hash) | 1,
		Depth: ptr.depth,
		Bound: ptr.bound,
		Value: ptr.value,
		Move:  ptr.move,
		Age:   ptr.age,
	}, true
}

// Store publishes a new entry for hash, replacing the current one only if it
// is not more valuable (depth/age) than what's already there. The replacement
// criteria mirror Table.Store, applied unsynchronized (spec.md §4.8).
func (t *LockFreeTT) Store(hash uint64, depth int, value int32, move board.Move, alpha, beta int32, age uint8) {
	sh, idx := t.shardAndSlot(hash)
	addr := &sh.slots[idx]

	fresh := &lfNode{hash: hash, value: value, bound: deriveBound(value, alpha, beta), depth: int8(depth), move: move, age: age}

	for {
		old := (*lfNode)(atomic.LoadPointer(addr))
		if old != nil && lfValue(old) > lfValue(fresh) {
			return // keep the more valuable existing entry
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(old), unsafe.Pointer(fresh)) {
			return
		}
		// lost the CAS race to another writer; a dropped write here is acceptable per spec
	}
}

// lfValue mirrors the teacher's "ply + depth<<1" node-value heuristic, using
// age in place of ply as the recency signal (this table has no ply of its own).
func lfValue(n *lfNode) int32 {
	if n == nil {
		return -1
	}
	return int32(n.age) + int32(n.depth)<<1
}
