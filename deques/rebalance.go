package deques

import (
	"math"
	"math/rand/v2"
)

// gcThreshold tunes the probability (gcThreshold / 2^31) that a mutation
// triggers a full GC pass. The per-mutation local checks keep chunks
// balanced in the common case; the rare full pass bounds the drift under
// workloads that systematically evade them, such as long runs of
// boundary inserts.
const gcThreshold = 10000

func (d *ChunkedDeque[T]) maybeGC() {
	if rand.Int32N(math.MaxInt32) < gcThreshold {
		d.GC()
	}
}

// shouldSplit reports whether a chunk of chunkSize elements is oversized
// relative to the deque: chunkSize^2 > 8N, ignoring tiny chunks.
func (d *ChunkedDeque[T]) shouldSplit(chunkSize int) bool {
	return chunkSize >= 16 && chunkSize*chunkSize > d.size*8
}

// shouldMerge reports whether two adjacent chunks totalling chunkSize
// elements are undersized relative to the deque: chunkSize^2 * 64 <= N.
func (d *ChunkedDeque[T]) shouldMerge(chunkSize int) bool {
	return chunkSize*chunkSize*64 <= d.size
}

// splitChunk splits chunk i at its midpoint. A new chunk takes the first
// half at table index i; the original keeps the second half at i+1.
func (d *ChunkedDeque[T]) splitChunk(i int) {
	half := d.table.buf[i].size >> 1
	d.table.insert(i, newChunk[T](fitCap(d.table.buf[i].size)))
	a := &d.table.buf[i]
	b := &d.table.buf[i+1]
	copy(a.buf, b.buf[:half])
	a.size = half
	copy(b.buf, b.buf[half:b.size])
	clear(b.buf[b.size-half : b.size])
	b.size -= half
}

// mergeChunk merges chunk i+1 into chunk i and removes it from the table.
func (d *ChunkedDeque[T]) mergeChunk(i int) {
	a := &d.table.buf[i]
	b := &d.table.buf[i+1]
	if a.size+b.size > len(a.buf) {
		a.expandTo(fitCap(a.size + b.size))
	}
	copy(a.buf[a.size:], b.buf[:b.size])
	a.size += b.size
	d.table.erase(i + 1)
}

// GC runs a full rebalance pass: drop empty chunks (keeping one when the
// table would otherwise be empty), split every oversized chunk, then merge
// every undersized adjacent pair. After it returns no chunk satisfies the
// split predicate and no adjacent pair the merge predicate.
func (d *ChunkedDeque[T]) GC() {
	d.dropEmptyChunks()
	for i := 0; i < d.table.size; i++ {
		// Halving an oversized chunk can leave halves that are still
		// oversized, e.g. after a deep drain; split to fixpoint.
		for d.shouldSplit(d.table.buf[i].size) {
			d.splitChunk(i)
		}
	}
	for i := 0; i < d.table.size-1; i++ {
		if d.shouldMerge(d.table.buf[i].size + d.table.buf[i+1].size) {
			d.mergeChunk(i)
			i--
		}
	}
}

func (d *ChunkedDeque[T]) dropEmptyChunks() {
	if d.table.size <= 1 {
		return
	}
	for i := 0; i < d.table.size && d.table.size > 1; i++ {
		if d.table.buf[i].size == 0 {
			d.table.erase(i)
			i--
		}
	}
}
