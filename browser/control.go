// Package browser defines the browser-control capability the engine drives.
//
// The engine never talks to a real browser directly. The surrounding test
// harness supplies a Controller (typically backed by a Playwright or CDP
// session) and the engine confines itself to this contract:
// - Pointer and keyboard input
// - Opaque visual snapshots (the engine never decodes them)
// - A plain-text view of the DOM for textual change detection
package browser

import (
	"context"
)

// Controller is the capability contract for driving a loaded game page.
// Implementations hide the underlying automation stack.
type Controller interface {
	// ClickAt clicks at absolute viewport coordinates.
	ClickAt(ctx context.Context, x, y int) error

	// ClickSelector clicks the first element matching the CSS selector.
	// Returns found=false (with a nil error) when no element matched,
	// so callers can fall back to a coordinate click.
	ClickSelector(ctx context.Context, selector string) (found bool, err error)

	// PressKey dispatches a keyboard press for a key name such as
	// "ArrowUp", "Space" or "Enter".
	PressKey(ctx context.Context, key string) error

	// CaptureScreenshot returns the current page rendering as opaque
	// image bytes (PNG or JPEG). The engine hashes and forwards these,
	// it never inspects pixels itself.
	CaptureScreenshot(ctx context.Context) ([]byte, error)

	// ReadDOMText returns the page's visible text content, used for
	// textual change detection and page-phase classification.
	ReadDOMText(ctx context.Context) (string, error)

	// ViewportSize returns the page viewport dimensions in pixels.
	ViewportSize() (width, height int)
}

// Center returns the viewport midpoint for a controller.
func Center(c Controller) (x, y int) {
	w, h := c.ViewportSize()
	return w / 2, h / 2
}
