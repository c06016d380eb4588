// Package engine coordinates processing cycles, across a fixed set of
// channels, fanning frames of work items out with fanout.DistributeList, and
// collecting them back with fanout.UndistributeList.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-fanlist/fanout"
	"github.com/joeycumines/go-fanlist/fixed"
	"github.com/joeycumines/logiface"
)

type (
	// Config models optional configuration, for New.
	Config struct {
		// Logger receives diagnostics, if non-nil. Errors are logged at the
		// error level, subject to ErrorLogRates, cycles at the debug level.
		Logger *logiface.Logger[logiface.Event]

		// ErrorLogRates limits the number of error logs, per category of
		// error, see catrate.NewLimiter.
		// **Defaults to 5 per second, and 30 per minute, if nil.**
		ErrorLogRates map[time.Duration]int

		// MaxFrames restricts the maximum number of frames per cycle, if
		// positive.
		// **Defaults to 16, if 0, or Config is nil.**
		//
		// WARNING: New will panic if both MaxFrames and FlushInterval are
		// disabled.
		MaxFrames int

		// FlushInterval specifies the maximum duration before a cycle is
		// started, with fewer than MaxFrames frames, if positive.
		// **Defaults to 5ms, if 0, or Config is nil.**
		FlushInterval time.Duration
	}

	// Processor runs one cycle, for all channels, after the cycle's frames
	// have been distributed. Scheduling of the work, e.g. across goroutines,
	// is up to the implementation, but it must not return until all work on
	// the channels has stopped.
	//
	// Each sub-list must retain the same elements, in the same order. The
	// values may only be modified if that does not affect equality, e.g. if
	// the item type is a pointer.
	Processor[C any] func(ctx context.Context, channels *fixed.Vector[C]) error

	// Engine accepts frames, each of which has exactly one item per
	// channel, grouping them into cycles. Cycles never overlap.
	// Instances must be initialized using the New factory.
	Engine[T comparable, C any] struct {
		// betteralign:ignore

		channels      *fixed.Vector[C]
		sublist       func(*C) *fanout.List[T]
		processor     Processor[C]
		logger        *logiface.Logger[logiface.Event]
		limiter       *catrate.Limiter
		maxFrames     int           // configurable
		flushInterval time.Duration // configurable
		ctx           context.Context
		cancel        context.CancelFunc
		done          chan struct{}
		stopped       chan struct{}
		stopOnce      sync.Once
		frameCh       chan *Result[T]     // sent on Submit (ping)
		cycleCh       chan *cycleState[T] // received on Submit (pong)
		state         *cycleState[T]      // pending cycle, also used for result
		cycles        atomic.Uint64
	}

	// cycleState models a pending cycle
	cycleState[T comparable] struct {
		err    error
		done   chan struct{}
		frames []*Result[T]
	}

	// Result models a submitted frame. The Wait method must be called, and
	// return nil, prior to accessing the collected items.
	Result[T comparable] struct {
		keys   fanout.List[T]
		output fanout.List[T]
		cycle  *cycleState[T]
	}
)

const (
	categorySizeMismatch = `size_mismatch`
	categoryItemNotFound = `item_not_found`
	categoryProcessor    = `processor`
)

var (
	// ErrClosed is returned by Submit, if the Engine is stopped.
	ErrClosed = errors.New(`engine: closed`)

	errPanic = errors.New(`engine: panic in Processor`)
)

// New initializes a new Engine, for the provided channels, the sub-lists of
// which are reached via sublist, and must be empty. The Engine takes
// ownership of the sub-lists, until it is closed. The provided config may be
// nil. A panic will occur if any other argument is nil, or invalid config is
// provided.
//
// The Engine.Close method and/or Engine.Shutdown method should be called
// when the Engine is no longer needed.
func New[T comparable, C any](channels *fixed.Vector[C], sublist func(*C) *fanout.List[T], processor Processor[C], config *Config) *Engine[T, C] {
	if channels == nil || sublist == nil || processor == nil {
		panic(`engine: nil argument`)
	}
	if channels.Empty() {
		panic(`engine: no channels`)
	}
	for _, c := range channels.All() {
		if s := sublist(c); s == nil || !s.Empty() {
			panic(`engine: sub-lists must be non-nil and empty`)
		}
	}

	x := Engine[T, C]{
		channels:      channels,
		sublist:       sublist,
		processor:     processor,
		maxFrames:     16,
		flushInterval: time.Millisecond * 5,
		state:         newCycleState[T](),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
		frameCh:       make(chan *Result[T]),
		cycleCh:       make(chan *cycleState[T]),
	}

	rates := map[time.Duration]int{
		time.Second: 5,
		time.Minute: 30,
	}

	if config != nil {
		x.logger = config.Logger
		if config.ErrorLogRates != nil {
			rates = config.ErrorLogRates
		}
		if config.MaxFrames != 0 {
			x.maxFrames = config.MaxFrames
		}
		if config.FlushInterval != 0 {
			x.flushInterval = config.FlushInterval
		}
	}

	if x.flushInterval <= 0 && x.maxFrames <= 0 {
		panic(`engine: one of MaxFrames or FlushInterval must be specified`)
	}

	if len(rates) != 0 {
		x.limiter = catrate.NewLimiter(rates)
	}

	x.ctx, x.cancel = context.WithCancel(context.Background())

	go x.run()

	return &x
}

// Channels returns the number of channels, which is also the required frame
// size.
func (x *Engine[T, C]) Channels() int {
	return x.channels.Len()
}

// Cycles returns the number of cycles that have completed successfully.
func (x *Engine[T, C]) Cycles() uint64 {
	return x.cycles.Load()
}

// Shutdown will immediately prevent further frames via Submit, then wait for
// all pending cycles to complete. An error will be returned if ctx is
// canceled prior to this, causing a forced Close.
//
// This method is unsafe to call from within a Processor.
func (x *Engine[T, C]) Shutdown(ctx context.Context) (err error) {
	x.stop()

	select {
	case <-ctx.Done():
		if x.ctx.Err() == nil {
			err = ctx.Err()
		}
		x.cancel()
		<-x.done
	case <-x.done:
	}

	return err
}

// Close immediately cancels all cycles, and prevents further frames via
// Submit, blocking until the Engine has finished closing.
//
// This method is unsafe to call from within a Processor.
func (x *Engine[T, C]) Close() error {
	x.cancel()
	<-x.done
	return nil
}

// Submit schedules a frame, which must contain exactly one item per channel,
// in channel order. An error will be returned if ctx is canceled, the Engine
// is stopped, or the frame has the wrong size (wrapping
// fanout.ErrSizeMismatch).
//
// The Result.Wait method should be used to wait for the frame's cycle to
// complete, after which the collected items are available.
func (x *Engine[T, C]) Submit(ctx context.Context, frame []T) (*Result[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := x.ctx.Err(); err != nil {
		return nil, ErrClosed
	}

	if len(frame) != x.channels.Len() {
		err := &fanout.Error{
			Err:      fanout.ErrSizeMismatch,
			Op:       `submit`,
			Channel:  -1,
			Size:     len(frame),
			Channels: x.channels.Len(),
		}
		x.logError(categorySizeMismatch, err, `frame rejected`)
		return nil, err
	}

	result := new(Result[T])
	for _, v := range frame {
		result.keys.PushBack(v)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case <-x.ctx.Done():
		return nil, ErrClosed

	case <-x.stopped:
		return nil, ErrClosed

	case x.frameCh <- result: // ping
		result.cycle = <-x.cycleCh // pong
		return result, nil
	}
}

func (x *Engine[T, C]) stop() {
	x.stopOnce.Do(func() {
		close(x.stopped)
	})
}

func (x *Engine[T, C]) run() {
	defer close(x.done)
	defer x.cancel()

	var wg sync.WaitGroup
	wg.Add(1) // decremented on exit

	// the most recently started cycle, which owns the channels until done
	var last *cycleState[T]

	// runs the next cycle, blocking until the previous one has finished
	runCycle := func() {
		if len(x.state.frames) == 0 {
			return
		}

		if last != nil {
			<-last.done
		}

		cycle := x.state
		x.state, last = newCycleState[T](), cycle

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cycle.run(x.ctx, x.process)
		}()
	}

	// finalizes the last cycle, and waits for all cycles
	var wait func()
	wait = func() {
		wait = nil
		runCycle()
		wg.Done()
		wg.Wait()
	}

	defer func() {
		x.cancel()
		if wait != nil {
			wait()
		}
	}()

	// sent cycles once their flush interval expires
	flushCh := make(chan *cycleState[T])

	for {
		select {
		case <-x.ctx.Done():
			return

		case <-x.stopped:
			wait()
			return

		case result := <-x.frameCh: // ping
			x.cycleCh <- x.state // pong

			x.state.frames = append(x.state.frames, result)

			if x.maxFrames > 0 && len(x.state.frames) >= x.maxFrames {
				runCycle()
			} else if x.flushInterval > 0 && len(x.state.frames) == 1 {
				// first frame -> start the timer for flush
				cycle := x.state
				timer := time.NewTimer(x.flushInterval)
				go func() {
					defer timer.Stop()
					select {
					case <-x.ctx.Done():
					case <-x.stopped:
					case <-cycle.done:
					case <-timer.C:
						select {
						case <-x.ctx.Done():
						case <-x.stopped:
						case <-cycle.done:
						case flushCh <- cycle:
						}
					}
				}()
			}

		case cycle := <-flushCh:
			if cycle == x.state {
				runCycle()
			}
		}
	}
}

// process runs a single cycle, resetting all sub-lists and outputs on
// failure, so that subsequent cycles start from a consistent state, and no
// frame of a failed cycle holds items
func (x *Engine[T, C]) process(ctx context.Context, frames []*Result[T]) (err error) {
	defer func() {
		if err != nil {
			x.reset(frames)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	var work fanout.List[T]
	for _, frame := range frames {
		for v := range frame.keys.Values() {
			work.PushBack(v)
		}
	}

	if b := x.logger.Debug(); b.Enabled() {
		b.Int(`frames`, len(frames)).
			Int(`items`, work.Len()).
			Log(`cycle started`)
	}

	if err = fanout.DistributeList(&work, x.channels, x.sublist); err != nil {
		x.logError(categorySizeMismatch, err, `distribute failed`)
		return err
	}

	if err = x.processor(ctx, x.channels); err != nil {
		x.logError(categoryProcessor, err, `processor failed`)
		return err
	}

	for _, frame := range frames {
		if err = fanout.UndistributeList(&frame.keys, x.channels, x.sublist, &frame.output); err != nil {
			x.logError(categoryItemNotFound, err, `collect failed`)
			return err
		}
	}

	x.cycles.Add(1)

	x.logger.Debug().Log(`cycle finished`)

	return nil
}

// reset drains every sub-list, and the output of every frame, discarding
// the items of a failed cycle
func (x *Engine[T, C]) reset(frames []*Result[T]) {
	var discarded int
	drain := func(s *fanout.List[T]) {
		for s.Len() != 0 {
			s.Remove(s.Front())
			discarded++
		}
	}
	for _, c := range x.channels.All() {
		drain(x.sublist(c))
	}
	for _, frame := range frames {
		drain(&frame.output)
	}
	if discarded != 0 {
		x.logger.Warning().
			Int(`discarded`, discarded).
			Log(`channels reset`)
	}
}

func (x *Engine[T, C]) logError(category string, err error, msg string) {
	b := x.logger.Err()
	if !b.Enabled() {
		return
	}
	if _, ok := x.limiter.Allow(category); !ok {
		b.Release()
		return
	}
	b.Str(`category`, category).
		Err(err).
		Log(msg)
}

func newCycleState[T comparable]() *cycleState[T] {
	return &cycleState[T]{done: make(chan struct{})}
}

func (x *cycleState[T]) run(ctx context.Context, process func(ctx context.Context, frames []*Result[T]) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	x.err = errPanic
	defer close(x.done)

	x.err = process(ctx, x.frames)

	return x.err
}

// Wait for the frame's cycle to complete. If the cycle failed, the error will
// be returned, and no items will have been collected.
func (x *Result[T]) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-x.cycle.done:
		return x.cycle.err
	}
}

// Frame returns a copy of the submitted frame.
func (x *Result[T]) Frame() []T {
	return x.keys.Slice()
}

// Items returns a copy of the collected items, in channel order, which will
// be nil unless Wait returned nil.
func (x *Result[T]) Items() []T {
	return x.output.Slice()
}

// Output returns the list of collected items, from which the caller may
// relocate elements. It must not be accessed prior to Wait returning.
func (x *Result[T]) Output() *fanout.List[T] {
	return &x.output
}
