package fanout

import (
	"iter"
)

type (
	// List is a growable doubly-linked list. Unlike container/list, elements
	// may be relocated between any two List instances, without allocating,
	// see List.MoveToBack and List.MoveBefore.
	//
	// The zero value is an empty List, ready to use. Instances must not be
	// copied.
	List[T any] struct {
		// root.next is the front, root.prev the back
		root Element[T]
		len  int
	}

	// Element is a node of a List. It retains its identity (and Value)
	// when relocated.
	Element[T any] struct {
		Value T

		next, prev *Element[T]
		list       *List[T]
	}

	// Channels models a fixed-size, random-access sequence of channels,
	// e.g. *fixed.Vector[C], or Slice[C].
	Channels[C any] interface {
		Len() int
		At(i int) *C
	}

	// Slice adapts a slice, to implement Channels. The elements are stored
	// by value, so the slice must not be grown, or its elements copied, while
	// any sub-list is non-empty.
	Slice[C any] []C

	// Channel is a minimal channel implementation, holding only a
	// sub-list. Pass (*Channel[T]).SubList as the sub-list accessor.
	// Instances must not be copied.
	Channel[T any] struct {
		Queue List[T]
	}
)

// NewList initializes a List containing values, in order.
func NewList[T any](values ...T) *List[T] {
	var x List[T]
	for _, v := range values {
		x.PushBack(v)
	}
	return &x
}

// Len returns the number of elements.
func (x *List[T]) Len() int {
	if x == nil {
		return 0
	}
	return x.len
}

// Empty is equivalent to Len() == 0.
func (x *List[T]) Empty() bool {
	return x.Len() == 0
}

// Front returns the first element, or nil.
func (x *List[T]) Front() *Element[T] {
	if x.Len() == 0 {
		return nil
	}
	return x.root.next
}

// Back returns the last element, or nil.
func (x *List[T]) Back() *Element[T] {
	if x.Len() == 0 {
		return nil
	}
	return x.root.prev
}

// PushBack appends a new element, returning it.
func (x *List[T]) PushBack(value T) *Element[T] {
	x.lazyInit()
	return x.insert(&Element[T]{Value: value}, x.root.prev)
}

// PushFront prepends a new element, returning it.
func (x *List[T]) PushFront(value T) *Element[T] {
	x.lazyInit()
	return x.insert(&Element[T]{Value: value}, &x.root)
}

// Remove detaches e from x, returning its value. A panic will occur if e is
// not an element of x.
func (x *List[T]) Remove(e *Element[T]) T {
	if e == nil || e.list != x {
		panic(`fanout: list: remove: element not in list`)
	}
	x.remove(e)
	return e.Value
}

// MoveToBack relocates e, which may belong to any List, to the back of x.
// Only links are updated. A panic will occur if e is nil, or detached.
func (x *List[T]) MoveToBack(e *Element[T]) {
	x.lazyInit()
	x.move(e, x.root.prev)
}

// MoveBefore relocates e, which may belong to any List, such that it
// immediately precedes mark, which must be an element of x.
func (x *List[T]) MoveBefore(e, mark *Element[T]) {
	if mark == nil || mark.list != x {
		panic(`fanout: list: move before: mark not in list`)
	}
	if e == mark {
		return
	}
	x.move(e, mark.prev)
}

// All iterates over the position and each element, front to back. The List
// must not be modified during iteration.
func (x *List[T]) All() iter.Seq2[int, *Element[T]] {
	return func(yield func(int, *Element[T]) bool) {
		i := 0
		for e := x.Front(); e != nil; e = e.Next() {
			if !yield(i, e) {
				return
			}
			i++
		}
	}
}

// Values iterates over each value, front to back.
func (x *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := x.Front(); e != nil; e = e.Next() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Pointers iterates over the address of each value, front to back.
func (x *List[T]) Pointers() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for e := x.Front(); e != nil; e = e.Next() {
			if !yield(&e.Value) {
				return
			}
		}
	}
}

// Slice returns a copy of the values, front to back, or nil if empty.
func (x *List[T]) Slice() (s []T) {
	if l := x.Len(); l != 0 {
		s = make([]T, 0, l)
		for v := range x.Values() {
			s = append(s, v)
		}
	}
	return s
}

func (x *List[T]) lazyInit() {
	if x.root.next == nil {
		x.root.next = &x.root
		x.root.prev = &x.root
	}
}

func (x *List[T]) insert(e, at *Element[T]) *Element[T] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = x
	x.len++
	return e
}

func (x *List[T]) remove(e *Element[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	x.len--
}

// move relinks e (from any list) to follow at, which must belong to x
func (x *List[T]) move(e, at *Element[T]) {
	if e == nil || e.list == nil {
		panic(`fanout: list: move: detached element`)
	}
	if e == at {
		return
	}
	e.list.remove(e)
	x.insert(e, at)
}

// List returns the List e currently belongs to, or nil.
func (e *Element[T]) List() *List[T] {
	return e.list
}

// Next returns the next element, or nil.
func (e *Element[T]) Next() *Element[T] {
	if p := e.next; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// Prev returns the previous element, or nil.
func (e *Element[T]) Prev() *Element[T] {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// Len returns the number of channels.
func (x Slice[C]) Len() int { return len(x) }

// At returns a pointer to the channel at index i.
func (x Slice[C]) At(i int) *C { return &x[i] }

// SubList returns the channel's sub-list.
func (x *Channel[T]) SubList() *List[T] { return &x.Queue }
