// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

// Debounce wraps fn so only the last call in a burst runs, delay after
// the burst goes quiet. Each new call restarts the wait and replaces
// the pending argument. fn runs on a timer goroutine.
func Debounce[T any](delay time.Duration, fn func(T)) func(T) {
	var mu sync.Mutex
	var timer *time.Timer

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			fn(arg)
		})
	}
}

// Throttle wraps fn so it runs at most once per interval. The first
// call in a window runs immediately with its own argument; calls that
// land inside the window are dropped.
func Throttle[T any](interval time.Duration, fn func(T)) func(T) {
	var mu sync.Mutex
	var last time.Time

	return func(arg T) {
		mu.Lock()
		now := time.Now()
		if now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn(arg)
	}
}
