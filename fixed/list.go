package fixed

import (
	"iter"
)

type (
	// List is a fixed-length, doubly-linked sequence. All nodes are allocated
	// up front, in a single arena, and only their relative order may change,
	// via Move and MoveRange. There are no insert or erase operations.
	//
	// Each element has a stable identity: an Iterator (or pointer) to an
	// element will continue to refer to the same element, after it is
	// relocated.
	//
	// The zero value is an empty List. Instances must not be copied.
	List[T any] struct {
		// nodes[0] is the sentinel, linking the back to the front
		nodes []listNode[T]
	}

	listNode[T any] struct {
		value      T
		prev, next int
	}

	// Iterator identifies a position within a List, either an element, or
	// the end (one past the back). Iterators are comparable, and remain
	// valid for the lifetime of the List.
	//
	// The zero value is not valid, and may not be used with any List.
	Iterator[T any] struct {
		list  *List[T]
		index int
	}
)

// NewList initializes a List of n zero values. A panic will occur if n is
// negative.
func NewList[T any](n int) *List[T] {
	checkSize(`list`, n)
	x := &List[T]{nodes: make([]listNode[T], n+1)}
	for i := range x.nodes {
		x.nodes[i].prev = i - 1
		x.nodes[i].next = i + 1
	}
	x.nodes[0].prev = n
	x.nodes[n].next = 0
	return x
}

// NewListValue initializes a List of n copies of value.
func NewListValue[T any](n int, value T) *List[T] {
	x := NewList[T](n)
	for i := 1; i < len(x.nodes); i++ {
		x.nodes[i].value = value
	}
	return x
}

// NewListFunc initializes a List of n elements, calling init with a pointer to
// each (zero value) element, in order. See also NewVectorFunc.
func NewListFunc[T any](n int, init func(i int, v *T)) *List[T] {
	x := NewList[T](n)
	if init != nil {
		for i := 1; i < len(x.nodes); i++ {
			init(i-1, &x.nodes[i].value)
		}
	}
	return x
}

// NewListSlice initializes a List as an element-wise copy of s.
func NewListSlice[T any](s []T) *List[T] {
	x := NewList[T](len(s))
	for i, v := range s {
		x.nodes[i+1].value = v
	}
	return x
}

// NewListSeq initializes a List as an element-wise copy of the values yielded
// by seq, which must be finite.
func NewListSeq[T any](seq iter.Seq[T]) *List[T] {
	var s []T
	for v := range seq {
		s = append(s, v)
	}
	return NewListSlice(s)
}

// Len returns the number of elements, which is constant.
func (x *List[T]) Len() int {
	if x == nil || len(x.nodes) == 0 {
		return 0
	}
	return len(x.nodes) - 1
}

// Empty is equivalent to Len() == 0.
func (x *List[T]) Empty() bool {
	return x.Len() == 0
}

// Begin returns an Iterator to the first element, or End, if the List is
// empty.
func (x *List[T]) Begin() Iterator[T] {
	x.init()
	return Iterator[T]{list: x, index: x.nodes[0].next}
}

// End returns the Iterator one past the last element.
func (x *List[T]) End() Iterator[T] {
	x.init()
	return Iterator[T]{list: x}
}

// Index returns an Iterator to the element at position i, in the current
// order, or End, if i == Len(). It is O(i).
func (x *List[T]) Index(i int) Iterator[T] {
	if i < 0 || i > x.Len() {
		panic(`fixed: list: index: out of range`)
	}
	it := x.Begin()
	for ; i > 0; i-- {
		it = it.Next()
	}
	return it
}

// Front returns a pointer to the first element. A panic will occur if the
// List is empty.
func (x *List[T]) Front() *T {
	if x.Empty() {
		panic(`fixed: list: front: empty`)
	}
	return &x.nodes[x.nodes[0].next].value
}

// Back returns a pointer to the last element. A panic will occur if the List
// is empty.
func (x *List[T]) Back() *T {
	if x.Empty() {
		panic(`fixed: list: back: empty`)
	}
	return &x.nodes[x.nodes[0].prev].value
}

// Move relocates the element at pos, such that it immediately precedes newPos.
// Only links are updated, the element itself is never copied. Moving an
// element before itself, or before its current successor, is a no-op.
//
// A panic will occur if pos is End, or if either iterator belongs to another
// List.
func (x *List[T]) Move(pos, newPos Iterator[T]) {
	x.check(pos)
	x.check(newPos)
	if pos.index == 0 {
		panic(`fixed: list: move: end iterator`)
	}
	if pos.index == newPos.index || x.nodes[pos.index].next == newPos.index {
		return
	}
	x.unlink(pos.index, pos.index)
	x.linkBefore(pos.index, pos.index, newPos.index)
}

// MoveRange relocates the half-open range [first, last), as a block, such
// that it immediately precedes newPos, preserving the order within the range.
// It is O(1), regardless of the length of the range.
//
// An empty range (first == last), or newPos equal to first or last, is a
// no-op. The caller must ensure that last is reachable from first, and that
// newPos is not within (first, last), as checking either would require
// walking the range.
//
// A panic will occur if any iterator belongs to another List.
func (x *List[T]) MoveRange(first, last, newPos Iterator[T]) {
	x.check(first)
	x.check(last)
	x.check(newPos)
	if first.index == last.index || newPos.index == first.index || newPos.index == last.index {
		return
	}
	if first.index == 0 {
		panic(`fixed: list: move range: end iterator`)
	}
	back := x.nodes[last.index].prev
	x.unlink(first.index, back)
	x.linkBefore(first.index, back, newPos.index)
}

// All iterates over the position and address of each element, front to
// back. The List must not be reordered during iteration.
func (x *List[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		if x.Empty() {
			return
		}
		for i, n := 0, x.nodes[0].next; n != 0; i, n = i+1, x.nodes[n].next {
			if !yield(i, &x.nodes[n].value) {
				return
			}
		}
	}
}

// Backward iterates over the position and address of each element, back to
// front.
func (x *List[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		if x.Empty() {
			return
		}
		for i, n := x.Len()-1, x.nodes[0].prev; n != 0; i, n = i-1, x.nodes[n].prev {
			if !yield(i, &x.nodes[n].value) {
				return
			}
		}
	}
}

// Values iterates over copies of each element, front to back.
func (x *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range x.All() {
			if !yield(*v) {
				return
			}
		}
	}
}

// Pointers iterates over the address of each element, front to back.
func (x *List[T]) Pointers() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range x.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// init lazily allocates the sentinel, for the zero value
func (x *List[T]) init() {
	if x.nodes == nil {
		x.nodes = make([]listNode[T], 1)
	}
}

func (x *List[T]) check(it Iterator[T]) {
	if it.list != x {
		panic(`fixed: list: foreign iterator`)
	}
}

// unlink detaches the chain first..back (inclusive), leaving the chain's own
// internal links intact
func (x *List[T]) unlink(first, back int) {
	prev, next := x.nodes[first].prev, x.nodes[back].next
	x.nodes[prev].next = next
	x.nodes[next].prev = prev
}

// linkBefore attaches the detached chain first..back (inclusive) before pos
func (x *List[T]) linkBefore(first, back, pos int) {
	prev := x.nodes[pos].prev
	x.nodes[prev].next = first
	x.nodes[first].prev = prev
	x.nodes[back].next = pos
	x.nodes[pos].prev = back
}

// Value returns a pointer to the element, which is stable across relocation.
// A panic will occur if the iterator is End, or invalid.
func (x Iterator[T]) Value() *T {
	if x.list == nil || x.index == 0 {
		panic(`fixed: list: iterator: no value`)
	}
	return &x.list.nodes[x.index].value
}

// Next returns the iterator following x, in the current order. The successor
// of the last element is End, and the successor of End is the first element.
func (x Iterator[T]) Next() Iterator[T] {
	x.mustValid()
	return Iterator[T]{list: x.list, index: x.list.nodes[x.index].next}
}

// Prev returns the iterator preceding x, in the current order. The
// predecessor of End is the last element.
func (x Iterator[T]) Prev() Iterator[T] {
	x.mustValid()
	return Iterator[T]{list: x.list, index: x.list.nodes[x.index].prev}
}

// IsEnd returns true if x is the End iterator of its List.
func (x Iterator[T]) IsEnd() bool {
	return x.list != nil && x.index == 0
}

// Valid returns true if x was obtained from a List (is not the zero value).
func (x Iterator[T]) Valid() bool {
	return x.list != nil
}

func (x Iterator[T]) mustValid() {
	if x.list == nil {
		panic(`fixed: list: iterator: invalid`)
	}
}
