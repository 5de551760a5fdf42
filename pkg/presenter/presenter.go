// Package presenter defines the presentation adapter the timer core renders
// through, and a headless in-memory implementation of it.
//
// The countdown engine and the persistence reconciler depend only on the
// Presenter interface. Front-ends (the terminal REPL, the web API) observe a
// Memory presenter and decide how to show its state and how loudly to
// surface finish notifications.
package presenter

import "github.com/mtimer/mtimer-go/pkg/timefmt"

// DefaultColor is used when a timer has no color set.
const DefaultColor = "#4CAF50"

// Presenter is the set of rendering capabilities the core consumes.
type Presenter interface {
	// Render instantiates the visible controls for a timer.
	Render(id int, name string, timeLeft int, color string)

	// IDs returns the rendered timers in render order.
	IDs() []int

	// DisplayText returns the "MM:SS" text currently shown.
	DisplayText(id int) string

	// SetDisplayText replaces the shown remaining time.
	SetDisplayText(id int, text string)

	// Name returns the displayed timer name.
	Name(id int) string

	// SetName replaces the displayed timer name.
	SetName(id int, name string)

	// Color returns the color control value, or "" if unset.
	Color(id int) string

	// HeaderColor returns the rendered header color, or "" if unset.
	HeaderColor(id int) string

	// SetHeaderColor sets the header background color.
	SetHeaderColor(id int, color string)

	// SetControlColor sets the color control value.
	SetControlColor(id int, color string)

	// SetSettingsVisible shows or hides the length settings.
	SetSettingsVisible(id int, visible bool)

	// SetLengthFields writes the hours/minutes/seconds inputs.
	SetLengthFields(id int, length timefmt.Length)

	// NotifyFinished surfaces that a timer reached zero.
	// Implementations must not block.
	NotifyFinished(id int, name string)
}
