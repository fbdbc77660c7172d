/*
Package deques provides double-ended sequence containers with true random
access.

It ships three layouts behind one [Deque] interface:

  - [ChunkedDeque]: a chunk table with √N rebalancing. O(1) amortized
    push/pop at both ends, O(√N) insert/remove at arbitrary positions,
    O(√N) indexed access with cache-friendly traversal. This is the
    general-purpose choice.
  - [RingDeque]: a single growable ring buffer. O(1) amortized push/pop and
    O(1) indexed access, but O(N) insert/remove in the middle.
  - [LinkedDeque]: a sentinel doubly-linked list. O(1) push/pop at both
    ends, O(N) positional access.

[ChunkedDeque] additionally offers positional cursors ([Cursor],
[ReadCursor]) that stay valid across structural edits, deep copies via
Clone, and a versioned binary snapshot format with optional zstd
compression.

# Iteration

All containers expose Go 1.23 iterators:

	for i, v := range d.All() {
		...
	}

Cursors complement them for workloads that interleave traversal with edits:

	c := d.Begin()
	for c.IsValid() {
		v, _ := c.Value()
		if drop(v) {
			c, _ = d.RemoveAt(c)
			continue
		}
		_ = c.Next()
	}

# Concurrency

Containers are single-owner: no method is safe for concurrent use with any
mutating method on the same container.
*/
package deques
