// Package scroll drives incremental page loading from a list sentinel:
// when the cursor reaches the bottom of the loaded window and more rows
// exist, exactly one load fires per approach.
package scroll

// Controller tracks sentinel visibility against fetch state. It is
// owned by the event loop and is not safe for concurrent use.
//
// One load fires per visibility transition into view. If the sentinel
// is still in view when a fetch finishes (short windows, tall
// terminals), the controller re-arms and fires again, so the window
// keeps growing until the sentinel scrolls out or pages run out.
type Controller struct {
	onLoadMore func()

	hasMore  bool
	visible  bool
	fetching bool
	armed    bool
	torn     bool
}

// New creates a controller that invokes onLoadMore for each triggered
// load.
func New(onLoadMore func()) *Controller {
	return &Controller{onLoadMore: onLoadMore, armed: true}
}

// SetHasMore records whether the current entry has pages left. While
// false, visibility changes never trigger loads.
func (c *Controller) SetHasMore(hasMore bool) {
	c.hasMore = hasMore
}

// SetVisible records a sentinel visibility change and fires a load on
// the transition into view when armed.
func (c *Controller) SetVisible(visible bool) {
	if visible && !c.visible {
		c.armed = true
	}
	c.visible = visible
	c.maybeFire()
}

// FetchStarted suppresses triggers for the duration of a fetch,
// including fetches started by other callers.
func (c *Controller) FetchStarted() {
	c.fetching = true
}

// FetchFinished re-arms the controller; if the sentinel is still in view
// and pages remain, the next load fires immediately.
func (c *Controller) FetchFinished() {
	c.fetching = false
	c.armed = true
	c.maybeFire()
}

// Teardown permanently disables the controller. Late fetch results must
// call FetchFinished on their own controller generation, so a rebuilt
// list starts from a fresh Controller.
func (c *Controller) Teardown() {
	c.torn = true
}

func (c *Controller) maybeFire() {
	if c.torn || !c.armed || !c.visible || !c.hasMore || c.fetching {
		return
	}
	c.armed = false
	c.onLoadMore()
}
