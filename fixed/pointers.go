package fixed

import (
	"iter"
	"slices"
)

// Addressable models a container able to yield the address of each of its
// elements, in iteration order, e.g. Vector, List, or fanout.List.
type Addressable[T any] interface {
	Pointers() iter.Seq[*T]
}

// AppendPointers appends the address of every element of src to dst, in
// iteration order, returning the extended slice. The src container is not
// modified.
//
// This allows a collaborator to hold non-owning references into e.g. a
// Vector, without copying the elements.
func AppendPointers[T any](dst []*T, src Addressable[T]) []*T {
	if src == nil {
		return dst
	}
	if l, ok := src.(interface{ Len() int }); ok {
		dst = slices.Grow(dst, l.Len())
	}
	for p := range src.Pointers() {
		dst = append(dst, p)
	}
	return dst
}

// AppendSlicePointers is equivalent to AppendPointers, for a plain slice.
func AppendSlicePointers[T any](dst []*T, src []T) []*T {
	dst = slices.Grow(dst, len(src))
	for i := range src {
		dst = append(dst, &src[i])
	}
	return dst
}
