package fanout

// DistributeList moves every element of source, front to back, to the back
// of the sub-list of channel k mod N, where k is the element's position, and N
// is channels.Len(). Elements already present in a sub-list are retained,
// ahead of the new elements. After a successful call, source is empty.
//
// An error wrapping ErrSizeMismatch will be returned, without modifying
// source or any sub-list, if there are no channels, source is empty, or
// source.Len() is not a multiple of N.
//
// The sub-lists must be distinct from each other, and from source. A panic
// will occur if source, channels or sublist is nil, or sublist returns nil or
// source.
func DistributeList[T, C any](source *List[T], channels Channels[C], sublist func(*C) *List[T]) error {
	if source == nil || channels == nil || sublist == nil {
		panic(`fanout: distribute: nil argument`)
	}

	n, size := channels.Len(), source.Len()
	if n <= 0 || size == 0 || size%n != 0 {
		return &Error{
			Err:      ErrSizeMismatch,
			Op:       opDistribute,
			Channel:  -1,
			Size:     size,
			Channels: n,
		}
	}

	for i := 0; i < n; i++ {
		switch sublist(channels.At(i)) {
		case nil:
			panic(`fanout: distribute: nil sub-list`)
		case source:
			panic(`fanout: distribute: sub-list is source`)
		}
	}

	for k := 0; k < size; k++ {
		sublist(channels.At(k % n)).MoveToBack(source.Front())
	}

	return nil
}

// UndistributeList validates that the front of each channel's sub-list is
// equal to the corresponding value in keys, then moves each front, in channel
// order, to the back of output. The keys list is never modified.
//
// The operation is all-or-nothing. An error wrapping ErrSizeMismatch will be
// returned if keys.Len() != channels.Len(), and an error wrapping
// ErrItemNotFound will be returned if any front does not match, or any
// sub-list is empty. In either case, no sub-list, nor output, is modified.
//
// See also UndistributeListFunc, for non-comparable types.
func UndistributeList[T comparable, C any](keys *List[T], channels Channels[C], sublist func(*C) *List[T], output *List[T]) error {
	return UndistributeListFunc(keys, channels, sublist, output, func(key, item T) bool {
		return key == item
	})
}

// UndistributeListFunc is equivalent to UndistributeList, but uses equal to
// compare each key against the front of the corresponding sub-list.
//
// The sub-lists must be distinct from each other, and from output. A panic
// will occur if any argument is nil, or sublist returns nil.
func UndistributeListFunc[T, C any](keys *List[T], channels Channels[C], sublist func(*C) *List[T], output *List[T], equal func(key, item T) bool) error {
	if keys == nil || channels == nil || sublist == nil || output == nil || equal == nil {
		panic(`fanout: undistribute: nil argument`)
	}

	n, size := channels.Len(), keys.Len()
	if size != n {
		return &Error{
			Err:      ErrSizeMismatch,
			Op:       opUndistribute,
			Channel:  -1,
			Size:     size,
			Channels: n,
		}
	}

	// validate every channel before moving anything
	k := 0
	for key := keys.Front(); key != nil; key = key.Next() {
		s := sublist(channels.At(k))
		if s == nil {
			panic(`fanout: undistribute: nil sub-list`)
		}
		if front := s.Front(); front == nil || !equal(key.Value, front.Value) {
			return &Error{
				Err:      ErrItemNotFound,
				Op:       opUndistribute,
				Channel:  k,
				Size:     size,
				Channels: n,
			}
		}
		k++
	}

	for k := 0; k < n; k++ {
		output.MoveToBack(sublist(channels.At(k)).Front())
	}

	return nil
}
