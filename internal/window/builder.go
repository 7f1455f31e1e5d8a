// Package window models native windows on top of a platform session.
//
// A *Window is the owning instance and lives on the event thread. A Handle is
// a copyable reference usable from any goroutine; it re-checks liveness on
// every call and reaches the window only through the thread's Proxy.
package window

import (
	"context"
	"errors"
	"slices"

	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
)

// DefaultSize is the logical client size of a window built without WithSize.
var DefaultSize = platform.Size{Width: 800, Height: 600}

// Builder describes a window to build. Builders are values: every With
// method returns a modified copy and leaves the receiver untouched.
type Builder struct {
	title     string
	size      platform.Size
	pos       platform.Point
	hasPos    bool
	parent    Handle
	hasParent bool
	exts      []any
}

// NewBuilder returns a builder with the default size and an empty title.
func NewBuilder() Builder {
	return Builder{size: DefaultSize}
}

func (b Builder) WithTitle(title string) Builder {
	b.title = title
	return b
}

func (b Builder) WithSize(width, height int) Builder {
	b.size = platform.Size{Width: width, Height: height}
	return b
}

func (b Builder) WithPosition(x, y int) Builder {
	b.pos = platform.Point{X: x, Y: y}
	b.hasPos = true
	return b
}

// WithParent makes the window a child of parent. Bindings without child
// window support reject it.
func (b Builder) WithParent(parent Handle) Builder {
	b.parent = parent
	b.hasParent = true
	return b
}

// WithExtension attaches a binding-specific option, such as x11.Class.
func (b Builder) WithExtension(ext any) Builder {
	b.exts = append(slices.Clip(b.exts), ext)
	return b
}

// Config returns the platform configuration the builder describes.
func (b Builder) Config() platform.WindowConfig {
	size := b.size
	if size == (platform.Size{}) {
		size = DefaultSize
	}
	cfg := platform.WindowConfig{
		Title:       b.title,
		Size:        size,
		Position:    b.pos,
		HasPosition: b.hasPos,
		Extensions:  slices.Clone(b.exts),
	}
	if b.hasParent {
		cfg.Parent = b.parent.ID()
	}
	return cfg
}

// Build realizes the window on the event thread owning ctx.
func (b Builder) Build(ctx *reactor.ThreadContext) (*Window, error) {
	if !ctx.Valid() {
		return nil, platform.NewError(platform.KindGone, "build window", 0, reactor.ErrExited)
	}
	if b.hasParent {
		if !b.parent.Alive() {
			return nil, platform.NewError(platform.KindGone, "build window", b.parent.ID(),
				errors.New("parent window is closed"))
		}
		if !platform.Has(ctx.Capabilities(), platform.CapChildWindows) {
			return nil, platform.NewError(platform.KindUnsupported, "build window", 0,
				errors.New("child windows"))
		}
	}

	cfg := b.Config()
	id, err := ctx.Session().BuildWindow(cfg)
	if err != nil {
		ctx.Logger().Warning().Str("title", cfg.Title).Err(err).Log("failed to build window")
		return nil, err
	}
	ctx.Logger().Debug().
		Uint64("window", uint64(id)).
		Str("title", cfg.Title).
		Str("size", cfg.Size.String()).
		Log("window built")

	return &Window{
		ctx:   ctx,
		id:    id,
		title: cfg.Title,
		size:  cfg.Size,
		live:  ctx.Track(id),
	}, nil
}

// BuildVia builds the window on the event thread behind p and returns its
// handle. It may be called from any goroutine.
func (b Builder) BuildVia(ctx context.Context, p *reactor.Proxy) (Handle, error) {
	return await(ctx, p, func(tc *reactor.ThreadContext) (Handle, error) {
		w, err := b.Build(tc)
		if err != nil {
			return Handle{}, err
		}
		return w.Handle(), nil
	})
}

// await runs fn on the event thread and returns its result. The result is
// handed over on a channel so a cancelled caller never races the thread.
func await[T any](ctx context.Context, p *reactor.Proxy, fn func(tc *reactor.ThreadContext) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	err := p.Call(ctx, func(tc *reactor.ThreadContext) error {
		v, err := fn(tc)
		ch <- result{v, err}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	r := <-ch
	return r.v, r.err
}
