package fanout

import (
	"errors"
	"strconv"
)

var (
	// ErrSizeMismatch indicates the number of items did not match the
	// number of channels, see DistributeList and UndistributeList.
	ErrSizeMismatch = errors.New(`size mismatch`)

	// ErrItemNotFound indicates a channel's front item did not match the
	// expected value, or the channel's sub-list was empty.
	ErrItemNotFound = errors.New(`item not found`)
)

// Error is the concrete type of errors returned by DistributeList and
// UndistributeList. It wraps one of ErrSizeMismatch or ErrItemNotFound, use
// [errors.Is] to match.
type Error struct {
	// Err is the underlying cause.
	Err error

	// Op is the name of the failed operation.
	Op string

	// Channel is the index of the channel that failed validation, or -1.
	Channel int

	// Size is the number of items provided.
	Size int

	// Channels is the number of channels provided.
	Channels int
}

const (
	opDistribute   = `distribute`
	opUndistribute = `undistribute`
)

// Error implements the error interface.
func (e *Error) Error() string {
	b := []byte(`fanout: `)
	if e.Op != `` {
		b = append(b, e.Op...)
		b = append(b, `: `...)
	}
	if e.Err != nil {
		b = append(b, e.Err.Error()...)
	} else {
		b = append(b, `unknown error`...)
	}
	switch {
	case errors.Is(e.Err, ErrSizeMismatch):
		b = append(b, `: `...)
		b = strconv.AppendInt(b, int64(e.Size), 10)
		b = append(b, ` items for `...)
		b = strconv.AppendInt(b, int64(e.Channels), 10)
		b = append(b, ` channels`...)
	case e.Channel >= 0:
		b = append(b, `: channel `...)
		b = strconv.AppendInt(b, int64(e.Channel), 10)
	}
	return string(b)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	return e.Err
}
