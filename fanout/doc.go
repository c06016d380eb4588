// Package fanout distributes work items across a fixed number of channels, in
// round-robin order, and collects them back out again.
//
// Items are held in [List] values, which are linked lists supporting O(1)
// relocation of an element from one List to another, without copying the
// element, or allocating. A channel may be any type, from which a sub-list
// can be projected, via an accessor function, e.g. a method expression such
// as (*Channel[T]).SubList.
//
// None of the types or functions in this package are safe for concurrent
// use. The caller is responsible for ensuring each List has a single writer,
// e.g. that channel workers are not running while DistributeList or
// UndistributeList is called.
package fanout
