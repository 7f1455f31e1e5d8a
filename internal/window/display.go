package window

import (
	"context"
	"errors"

	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
)

// Displays collects the current display topology on the event thread.
func Displays(ctx *reactor.ThreadContext) ([]platform.Display, error) {
	if !ctx.Valid() {
		return nil, platform.NewError(platform.KindGone, "displays", 0, reactor.ErrExited)
	}
	var out []platform.Display
	for d, err := range ctx.Displays() {
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Primary returns the primary display, or the first one when the platform
// marks none as primary.
func Primary(ctx *reactor.ThreadContext) (platform.Display, error) {
	displays, err := Displays(ctx)
	if err != nil {
		return platform.Display{}, err
	}
	return primaryOf(displays)
}

// DisplaysVia queries the display topology from any goroutine.
func DisplaysVia(ctx context.Context, p *reactor.Proxy) ([]platform.Display, error) {
	return await(ctx, p, Displays)
}

func primaryOf(displays []platform.Display) (platform.Display, error) {
	if len(displays) == 0 {
		return platform.Display{}, platform.NewError(platform.KindUnsupported, "primary display", 0,
			errors.New("no displays"))
	}
	for _, d := range displays {
		if d.Primary {
			return d, nil
		}
	}
	return displays[0], nil
}
