// Package broadcast provides a minimal synchronous publish/subscribe hub.
//
// Unlike channel-based buses, the Hub delivers notifications inline on the
// publisher's goroutine. This gives subscribers a strict ordering guarantee:
// any state the publisher updated before calling Publish is visible to every
// listener during the notification. The package is used to propagate session
// changes to independently mounted observers within one process; cross-process
// propagation is layered on top by the session file watcher.
//
// Usage:
//
//	hub := broadcast.New()
//	stop := hub.Subscribe(func() {
//	    fmt.Println("state changed, current value:", store.Current())
//	})
//	defer stop()
//
//	hub.Publish()
package broadcast
