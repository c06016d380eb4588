// Package fixed implements containers whose element count is set at
// construction, and never changes.
//
// Elements are never copied, moved, or reallocated after construction, so any
// pointer obtained to an element remains valid for the lifetime of the
// container. This makes the containers suitable for element types that must
// not be copied after first use (e.g. those embedding a [sync.Mutex]), and for
// hot paths that must not allocate, such as per-block audio processing.
//
// [List] additionally supports O(1) relocation of elements and element
// ranges, by re-linking nodes within a preallocated arena.
package fixed
