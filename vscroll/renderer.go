// ABOUTME: Virtual scroll renderer keeping only the visible window of items rendered
// ABOUTME: Reconciles an index-to-handle map against the window on every scroll, resize or item change

// Package vscroll renders a bounded window of a long item list inside a
// scrollable container.
//
// The renderer knows nothing about the UI toolkit: a Container provides scroll
// geometry and spacers, and the caller's render function turns an item into an
// opaque RenderedItem handle. Scroll events are coalesced through a Scheduler so
// at most one recompute runs per frame.
package vscroll

import (
	"go.uber.org/zap"
)

// RenderedItem is an opaque handle to one rendered item
type RenderedItem interface {
	Position(top, height int)
	Remove()
	Replace(next RenderedItem)
}

// Container is the scrollable surface items are rendered into
type Container interface {
	// Mount creates the top spacer, content wrapper and bottom spacer
	Mount()
	ScrollTop() int
	SetScrollTop(top int)
	ClientHeight() int
	SetTotalHeight(height int)
	SetSpacers(top, bottom int)
	// Insert adds a positioned item to the content wrapper
	Insert(item RenderedItem)
	// OnScroll registers a scroll listener and returns a function that detaches it
	OnScroll(fn func()) (detach func())
}

// ResizeNotifier is implemented by containers that report size changes
type ResizeNotifier interface {
	OnResize(fn func()) (stop func())
}

// VisibilityObserver is implemented by containers that track per-item visibility
type VisibilityObserver interface {
	Observe(item RenderedItem, index int)
	Unobserve(item RenderedItem)
	Disconnect()
}

// RenderFunc produces the handle for item at index
// It must not mutate shared state; a panic propagates to the caller.
type RenderFunc[T any] func(item T, index int) RenderedItem

// Align selects where ScrollToItem places the target item
type Align int

// Scroll alignments
const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// DefaultBufferSize is the number of items rendered beyond each viewport edge
const DefaultBufferSize = 5

// Options configures a renderer
type Options struct {
	ItemHeight int
	BufferSize int
	Scheduler  Scheduler // defaults to SyncScheduler
	Logger     *zap.Logger
}

// Renderer renders the visible window of an item list
// Not safe for concurrent use.
type Renderer[T any] struct {
	render     RenderFunc[T]
	itemHeight int
	bufferSize int
	scheduler  Scheduler
	log        *zap.Logger

	container Container
	observer  VisibilityObserver
	detach    func()
	stop      func()

	items    []T
	rendered map[int]RenderedItem
	window   Window

	lastScrollTop int
	hasRendered   bool
	framePending  bool
	forcePending  bool
	attachment    uint64 // bumped by Initialize and Destroy; stale frame callbacks compare it
}

// New creates a renderer; call Initialize to attach it to a container
func New[T any](render RenderFunc[T], opts Options) *Renderer[T] {
	if opts.ItemHeight < 1 {
		opts.ItemHeight = 1
	}

	if opts.BufferSize < 0 {
		opts.BufferSize = DefaultBufferSize
	}

	if opts.Scheduler == nil {
		opts.Scheduler = SyncScheduler{}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Renderer[T]{
		render:     render,
		itemHeight: opts.ItemHeight,
		bufferSize: opts.BufferSize,
		scheduler:  opts.Scheduler,
		log:        opts.Logger,
		rendered:   make(map[int]RenderedItem),
		window:     Window{Start: 0, End: -1},
	}
}

// Initialize mounts the renderer in container and attaches listeners
// A nil container is ignored; calling it again while attached does nothing.
func (r *Renderer[T]) Initialize(container Container) {
	if container == nil {
		r.log.Debug("no container to initialize virtual scroll in")

		return
	}

	if r.container != nil {
		return
	}

	r.container = container
	r.attachment++
	container.Mount()
	r.detach = container.OnScroll(r.HandleScroll)

	if notifier, ok := container.(ResizeNotifier); ok {
		r.stop = notifier.OnResize(r.handleResize)
	}

	if observer, ok := container.(VisibilityObserver); ok {
		r.observer = observer
	}

	container.SetTotalHeight(len(r.items) * r.itemHeight)
	r.update(true)
}

// SetItems replaces the item list and re-renders the visible window
// The slice is copied, so UpdateItem never writes into the caller's slice.
func (r *Renderer[T]) SetItems(items []T) {
	r.items = append([]T(nil), items...)

	if r.container == nil {
		return
	}

	for index := range r.rendered {
		r.removeAt(index)
	}

	r.container.SetTotalHeight(len(r.items) * r.itemHeight)
	r.update(true)
}

// HandleScroll schedules a recompute on the next frame
// Scroll events arriving while one is pending are absorbed.
func (r *Renderer[T]) HandleScroll() {
	r.schedule(false)
}

func (r *Renderer[T]) handleResize() {
	r.schedule(true)
}

func (r *Renderer[T]) schedule(force bool) {
	if r.container == nil {
		return
	}

	if force {
		r.forcePending = true
	}

	if r.framePending {
		return
	}

	r.framePending = true
	attachment := r.attachment

	r.scheduler.ScheduleOnce(func() {
		// Queued for an earlier attachment; its flags were reset by Destroy
		if attachment != r.attachment {
			return
		}

		force := r.forcePending
		r.framePending = false
		r.forcePending = false

		if r.container == nil {
			return
		}

		r.update(force)
	})
}

// update reconciles rendered handles with the current window
func (r *Renderer[T]) update(force bool) {
	scrollTop := r.container.ScrollTop()

	// Movements under half an item cannot change the window enough to matter
	if !force && r.hasRendered && 2*abs(scrollTop-r.lastScrollTop) < r.itemHeight {
		return
	}

	r.lastScrollTop = scrollTop
	w := ComputeWindow(len(r.items), r.itemHeight, r.bufferSize, scrollTop, r.container.ClientHeight())

	removed := 0

	for index := range r.rendered {
		if !w.Contains(index) {
			r.removeAt(index)
			removed++
		}
	}

	added := 0

	for index := w.Start; index <= w.End; index++ {
		if _, ok := r.rendered[index]; ok {
			continue
		}

		item := r.render(r.items[index], index)
		item.Position(index*r.itemHeight, r.itemHeight)
		r.container.Insert(item)
		r.rendered[index] = item

		if r.observer != nil {
			r.observer.Observe(item, index)
		}

		added++
	}

	top, bottom := Spacers(w, len(r.items), r.itemHeight)
	r.container.SetSpacers(top, bottom)

	r.window = w
	r.hasRendered = true

	r.log.Debug("virtual scroll window updated",
		zap.Int("start", w.Start),
		zap.Int("end", w.End),
		zap.Int("added", added),
		zap.Int("removed", removed))
}

func (r *Renderer[T]) removeAt(index int) {
	item := r.rendered[index]
	delete(r.rendered, index)

	if r.observer != nil {
		r.observer.Unobserve(item)
	}

	item.Remove()
}

// UpdateItem replaces the item at index and re-renders only its handle if visible
// Out-of-range indices are ignored.
func (r *Renderer[T]) UpdateItem(index int, item T) {
	if index < 0 || index >= len(r.items) {
		return
	}

	r.items[index] = item

	old, ok := r.rendered[index]
	if !ok || r.container == nil {
		return
	}

	next := r.render(item, index)
	next.Position(index*r.itemHeight, r.itemHeight)
	old.Replace(next)
	r.rendered[index] = next

	if r.observer != nil {
		r.observer.Unobserve(old)
		r.observer.Observe(next, index)
	}
}

// ScrollToItem scrolls so the item at index sits at the start, center or end of the viewport
// Out-of-range indices are ignored.
func (r *Renderer[T]) ScrollToItem(index int, align Align) {
	if r.container == nil || index < 0 || index >= len(r.items) {
		return
	}

	client := r.container.ClientHeight()
	top := index * r.itemHeight

	target := top

	switch align {
	case AlignCenter:
		target = top - (client-r.itemHeight)/2
	case AlignEnd:
		target = top - client + r.itemHeight
	}

	maxScroll := max(0, len(r.items)*r.itemHeight-client)
	target = min(max(0, target), maxScroll)

	if target == r.container.ScrollTop() {
		return
	}

	r.container.SetScrollTop(target)
	r.HandleScroll()
}

// Destroy detaches listeners and observers and forgets rendered handles
func (r *Renderer[T]) Destroy() {
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}

	if r.stop != nil {
		r.stop()
		r.stop = nil
	}

	if r.observer != nil {
		r.observer.Disconnect()
		r.observer = nil
	}

	r.container = nil
	r.attachment++
	r.rendered = make(map[int]RenderedItem)
	r.window = Window{Start: 0, End: -1}
	r.hasRendered = false
	r.framePending = false
	r.forcePending = false
}

// Window returns the last computed window
func (r *Renderer[T]) Window() Window {
	return r.window
}

// RenderedCount returns the number of rendered handles
func (r *Renderer[T]) RenderedCount() int {
	return len(r.rendered)
}

// Len returns the number of items
func (r *Renderer[T]) Len() int {
	return len(r.items)
}

// Item returns the item at index and whether it exists
func (r *Renderer[T]) Item(index int) (T, bool) {
	if index < 0 || index >= len(r.items) {
		var zero T

		return zero, false
	}

	return r.items[index], true
}

// ItemHeight returns the height of one item
func (r *Renderer[T]) ItemHeight() int {
	return r.itemHeight
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
