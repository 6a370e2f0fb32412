// Package clock is the single time source for the scheduler. Tests freeze
// or advance it by swapping NowFunc.
package clock

import "time"

// NowFunc is the current time source.
var NowFunc = time.Now

// Now returns the current time as reported by NowFunc.
func Now() time.Time { return NowFunc() }

// Since reports the elapsed time between t and Now.
func Since(t time.Time) time.Duration { return Now().Sub(t) }
