package fanout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/go-fanlist/fixed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testChannel struct {
	name string
	sub  List[int]
}

func testSubList(c *testChannel) *List[int] { return &c.sub }

func newTestChannels(n int) *fixed.Vector[testChannel] {
	return fixed.NewVectorFunc(n, func(i int, c *testChannel) {
		c.name = string(rune('a' + i))
	})
}

func subLists(channels *fixed.Vector[testChannel]) (s [][]int) {
	for _, c := range channels.All() {
		s = append(s, c.sub.Slice())
	}
	return s
}

func TestDistributeList_roundRobin(t *testing.T) {
	channels := newTestChannels(3)

	source := NewList(1, 2, 3)
	require.NoError(t, DistributeList(source, channels, testSubList))
	assert.True(t, source.Empty())
	if diff := cmp.Diff([][]int{{1}, {2}, {3}}, subLists(channels)); diff != `` {
		t.Errorf("unexpected sub-lists (-want +got):\n%s", diff)
	}

	// appends, FIFO across calls
	source = NewList(4, 5, 6)
	require.NoError(t, DistributeList(source, channels, testSubList))
	assert.True(t, source.Empty())
	if diff := cmp.Diff([][]int{{1, 4}, {2, 5}, {3, 6}}, subLists(channels)); diff != `` {
		t.Errorf("unexpected sub-lists (-want +got):\n%s", diff)
	}
}

func TestDistributeList_multiple(t *testing.T) {
	channels := newTestChannels(4)
	source := NewList(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	require.NoError(t, DistributeList(source, channels, testSubList))
	assert.Equal(t, [][]int{{0, 4, 8}, {1, 5, 9}, {2, 6, 10}, {3, 7, 11}}, subLists(channels))
}

func TestDistributeList_preservesIdentity(t *testing.T) {
	channels := make(Slice[Channel[string]], 2)
	source := NewList(`x`, `y`)
	x, y := source.Front(), source.Back()
	require.NoError(t, DistributeList(source, channels, (*Channel[string]).SubList))
	assert.Same(t, x, channels[0].Queue.Front())
	assert.Same(t, y, channels[1].Queue.Front())
}

func TestDistributeList_sizeMismatch(t *testing.T) {
	for _, tc := range [...]struct {
		name     string
		source   []int
		channels int
	}{
		{`empty source`, nil, 3},
		{`not a multiple`, []int{1, 2, 3, 4}, 3},
		{`fewer than channels`, []int{1, 2}, 3},
		{`no channels`, []int{1, 2}, 0},
		{`no channels empty source`, nil, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			channels := newTestChannels(tc.channels)
			for _, c := range channels.All() {
				c.sub.PushBack(-1)
			}
			source := NewList(tc.source...)

			err := DistributeList(source, channels, testSubList)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSizeMismatch))
			var target *Error
			require.True(t, errors.As(err, &target))
			assert.Equal(t, `distribute`, target.Op)
			assert.Equal(t, len(tc.source), target.Size)
			assert.Equal(t, tc.channels, target.Channels)
			assert.Equal(t, -1, target.Channel)

			// nothing was modified
			assert.Equal(t, tc.source, source.Slice())
			for _, c := range channels.All() {
				assert.Equal(t, []int{-1}, c.sub.Slice())
			}
		})
	}
}

func TestDistributeList_panics(t *testing.T) {
	channels := newTestChannels(1)
	assertPanics(t, func() { _ = DistributeList(nil, channels, testSubList) }, `expected panic with nil source`)
	assertPanics(t, func() { _ = DistributeList[int, testChannel](NewList(1), nil, testSubList) }, `expected panic with nil channels`)
	assertPanics(t, func() { _ = DistributeList(NewList(1), channels, nil) }, `expected panic with nil accessor`)
	source := NewList(1)
	assertPanics(t, func() {
		_ = DistributeList(source, channels, func(*testChannel) *List[int] { return nil })
	}, `expected panic with nil sub-list`)
	assert.Equal(t, []int{1}, source.Slice())

	channels = newTestChannels(2)
	source = &channels.At(1).sub
	source.PushBack(1)
	source.PushBack(2)
	assertPanics(t, func() { _ = DistributeList(source, channels, testSubList) }, `expected panic with source as a sub-list`)
	assert.Equal(t, []int{1, 2}, source.Slice())
	assert.True(t, channels.At(0).sub.Empty())
}

func TestUndistributeList_success(t *testing.T) {
	channels := newTestChannels(3)
	require.NoError(t, DistributeList(NewList(1, 2, 3), channels, testSubList))
	require.NoError(t, DistributeList(NewList(4, 5, 6), channels, testSubList))

	keys := NewList(1, 2, 3)
	output := NewList(0)
	require.NoError(t, UndistributeList(keys, channels, testSubList, output))

	assert.Equal(t, []int{1, 2, 3}, keys.Slice())
	assert.Equal(t, []int{0, 1, 2, 3}, output.Slice())
	assert.Equal(t, [][]int{{4}, {5}, {6}}, subLists(channels))

	// output accumulates across calls
	require.NoError(t, UndistributeList(NewList(4, 5, 6), channels, testSubList, output))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, output.Slice())
	assert.Equal(t, [][]int{nil, nil, nil}, subLists(channels))
}

func TestUndistributeList_sizeMismatch(t *testing.T) {
	channels := newTestChannels(3)
	require.NoError(t, DistributeList(NewList(1, 2, 3), channels, testSubList))
	for _, keys := range [...][]int{nil, {1, 2}, {1, 2, 3, 4}} {
		output := NewList[int]()
		err := UndistributeList(NewList(keys...), channels, testSubList, output)
		assert.True(t, errors.Is(err, ErrSizeMismatch), err)
		assert.False(t, errors.Is(err, ErrItemNotFound))
		assert.True(t, output.Empty())
		assert.Equal(t, [][]int{{1}, {2}, {3}}, subLists(channels))
	}
}

func TestUndistributeList_itemNotFound(t *testing.T) {
	for _, tc := range [...]struct {
		name    string
		keys    []int
		channel int
	}{
		{`first mismatch`, []int{9, 2, 3}, 0},
		{`last mismatch`, []int{1, 2, 9}, 2},
		{`middle mismatch`, []int{1, 0, 3}, 1},
		{`order swapped`, []int{2, 1, 3}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			channels := newTestChannels(3)
			require.NoError(t, DistributeList(NewList(1, 2, 3, 4, 5, 6), channels, testSubList))
			keys := NewList(tc.keys...)
			output := NewList[int]()

			err := UndistributeList(keys, channels, testSubList, output)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrItemNotFound))
			var target *Error
			require.True(t, errors.As(err, &target))
			assert.Equal(t, tc.channel, target.Channel)
			assert.Equal(t, `undistribute`, target.Op)

			// all-or-nothing
			assert.True(t, output.Empty())
			assert.Equal(t, tc.keys, keys.Slice())
			assert.Equal(t, [][]int{{1, 4}, {2, 5}, {3, 6}}, subLists(channels))
		})
	}
}

func TestUndistributeList_emptySubList(t *testing.T) {
	channels := newTestChannels(2)
	channels.At(0).sub.PushBack(1)
	output := NewList[int]()
	err := UndistributeList(NewList(1, 2), channels, testSubList, output)
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.EqualError(t, err, `fanout: undistribute: item not found: channel 1`)
	assert.True(t, output.Empty())
	assert.Equal(t, [][]int{{1}, nil}, subLists(channels))
}

func TestUndistributeList_noChannels(t *testing.T) {
	output := NewList[int]()
	require.NoError(t, UndistributeList(NewList[int](), newTestChannels(0), testSubList, output))
	assert.True(t, output.Empty())
}

func TestUndistributeListFunc(t *testing.T) {
	type item struct {
		id      int
		samples []float32
	}
	channels := make(Slice[Channel[item]], 2)
	require.NoError(t, DistributeList(NewList(item{id: 1}, item{id: 2}), channels, (*Channel[item]).SubList))

	byID := func(key, v item) bool { return key.id == v.id }
	output := NewList[item]()
	require.NoError(t, UndistributeListFunc(NewList(item{id: 1}, item{id: 2}), channels, (*Channel[item]).SubList, output, byID))
	assert.Equal(t, 2, output.Len())
	assert.Equal(t, 2, output.Back().Value.id)

	assertPanics(t, func() {
		_ = UndistributeListFunc(NewList(item{}, item{}), channels, (*Channel[item]).SubList, output, nil)
	}, `expected panic with nil equal`)
}

func TestError_Error(t *testing.T) {
	for _, tc := range [...]struct {
		err  *Error
		want string
	}{
		{&Error{Err: ErrSizeMismatch, Op: opDistribute, Channel: -1, Size: 4, Channels: 3}, `fanout: distribute: size mismatch: 4 items for 3 channels`},
		{&Error{Err: ErrItemNotFound, Op: opUndistribute, Channel: 2}, `fanout: undistribute: item not found: channel 2`},
		{&Error{Channel: -1}, `fanout: unknown error`},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}
