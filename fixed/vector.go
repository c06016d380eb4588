package fixed

import (
	"iter"
)

// Vector is a fixed-length, random-access container, backed by a single
// contiguous array. There are no resize, insert or erase operations.
//
// The zero value is an empty Vector. Instances should be passed by
// reference, copying a Vector shares the backing array.
type Vector[T any] struct {
	s []T
}

// NewVector initializes a Vector of n zero values. A panic will occur if n is
// negative.
func NewVector[T any](n int) *Vector[T] {
	checkSize(`vector`, n)
	return &Vector[T]{s: make([]T, n)}
}

// NewVectorValue initializes a Vector of n copies of value.
func NewVectorValue[T any](n int, value T) *Vector[T] {
	x := NewVector[T](n)
	for i := range x.s {
		x.s[i] = value
	}
	return x
}

// NewVectorFunc initializes a Vector of n elements, calling init with a
// pointer to each (zero value) element, in index order. The element is
// initialized in place, and is never copied, if init is nil, it behaves like
// NewVector.
func NewVectorFunc[T any](n int, init func(i int, v *T)) *Vector[T] {
	x := NewVector[T](n)
	if init != nil {
		for i := range x.s {
			init(i, &x.s[i])
		}
	}
	return x
}

// NewVectorSlice initializes a Vector as an element-wise copy of s.
func NewVectorSlice[T any](s []T) *Vector[T] {
	x := NewVector[T](len(s))
	copy(x.s, s)
	return x
}

// NewVectorSeq initializes a Vector as an element-wise copy of the values
// yielded by seq, which must be finite.
func NewVectorSeq[T any](seq iter.Seq[T]) *Vector[T] {
	var s []T
	for v := range seq {
		s = append(s, v)
	}
	// clip, the capacity must match the length, in case the slice is exposed
	return &Vector[T]{s: s[:len(s):len(s)]}
}

// Len returns the number of elements, which is constant.
func (x *Vector[T]) Len() int {
	if x == nil {
		return 0
	}
	return len(x.s)
}

// Empty is equivalent to Len() == 0.
func (x *Vector[T]) Empty() bool {
	return x.Len() == 0
}

// At returns a pointer to the element at index i, which is valid for the
// lifetime of the Vector. A panic will occur if i is out of range.
func (x *Vector[T]) At(i int) *T {
	if i < 0 || i >= x.Len() {
		panic(`fixed: vector: at: index out of range`)
	}
	return &x.s[i]
}

// Get returns a copy of the element at index i.
func (x *Vector[T]) Get(i int) T {
	return *x.At(i)
}

// Set assigns the element at index i.
func (x *Vector[T]) Set(i int, value T) {
	*x.At(i) = value
}

// Front returns a pointer to the first element. A panic will occur if the
// Vector is empty.
func (x *Vector[T]) Front() *T {
	if x.Empty() {
		panic(`fixed: vector: front: empty`)
	}
	return &x.s[0]
}

// Back returns a pointer to the last element. A panic will occur if the
// Vector is empty.
func (x *Vector[T]) Back() *T {
	if x.Empty() {
		panic(`fixed: vector: back: empty`)
	}
	return &x.s[len(x.s)-1]
}

// All iterates over the index and address of each element, front to back.
func (x *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < x.Len(); i++ {
			if !yield(i, &x.s[i]) {
				return
			}
		}
	}
}

// Backward iterates over the index and address of each element, back to
// front.
func (x *Vector[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := x.Len() - 1; i >= 0; i-- {
			if !yield(i, &x.s[i]) {
				return
			}
		}
	}
}

// Values iterates over copies of each element, front to back.
func (x *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < x.Len(); i++ {
			if !yield(x.s[i]) {
				return
			}
		}
	}
}

// Pointers iterates over the address of each element, front to back.
func (x *Vector[T]) Pointers() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < x.Len(); i++ {
			if !yield(&x.s[i]) {
				return
			}
		}
	}
}

func checkSize(kind string, n int) {
	if n < 0 {
		panic(`fixed: ` + kind + `: negative size`)
	}
}
