package scorm

// Window models the slice of a browsing context the locator cares about: a
// parent chain, an optional opener, and a possibly attached tracking API.
// Parent and Opener return an error where a browser would throw a
// cross-origin SecurityError; the locator folds such errors into "not found"
// instead of propagating them.
type Window interface {
	// Parent returns the parent context, or nil for a top-level context.
	Parent() (Window, error)
	// Opener returns the context that opened this one, or nil.
	Opener() (Window, error)
	// API returns the tracking API attached to this context, or nil.
	API() HostAPI
}

// DefaultMaxHops bounds the parent-chain walk. Degenerate frame graphs and
// cross-origin denials must never turn discovery into an infinite loop.
const DefaultMaxHops = 7

// Discovery locates the host tracking API from a starting context. The zero
// value uses DefaultMaxHops.
type Discovery struct {
	MaxHops int
}

// Locate walks win's parent chain looking for a tracking API, then falls
// back to the opener chain. The walk is read-only, bounded, and never
// propagates access errors; callers get an explicit found/not-found answer.
func (d Discovery) Locate(win Window) (HostAPI, bool) {
	if win == nil {
		return nil, false
	}
	if api, ok := d.scan(win); ok {
		return api, true
	}
	opener, err := win.Opener()
	if err != nil || opener == nil {
		return nil, false
	}
	return d.scan(opener)
}

// scan checks win and up to MaxHops of its ancestors.
func (d Discovery) scan(win Window) (HostAPI, bool) {
	hops := d.MaxHops
	if hops <= 0 {
		hops = DefaultMaxHops
	}
	for i := 0; win != nil; i++ {
		if api := win.API(); api != nil {
			return api, true
		}
		if i == hops {
			break
		}
		parent, err := win.Parent()
		if err != nil {
			// cross-origin access denied; the chain ends here
			return nil, false
		}
		if parent == win {
			// some hosts report a top-level context as its own parent
			return nil, false
		}
		win = parent
	}
	return nil, false
}
