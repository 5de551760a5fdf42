// Package timefmt converts between second counts and the "MM:SS" strings
// shown on a timer display.
//
// # Display Format
//
// Minutes and seconds are zero padded to two digits. Minutes are not wrapped
// into hours, so one hour renders as "60:00" and the largest supported length
// (23:59:59) renders as "1439:59".
//
// # Lengths
//
// A timer length is entered as three bounded fields (hours 0-23, minutes
// 0-59, seconds 0-59). Out-of-range values are clamped rather than rejected
// and non-numeric input counts as zero.
package timefmt
