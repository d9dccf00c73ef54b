// Package signal provides typed multicast change notifications.
//
// A [Signal] holds an ordered list of listeners. Each listener is identified
// by the [Token] returned from [Signal.Connect], not by the identity of the
// callback, so the same function may be connected twice and removed
// independently.
//
// Emit iterates over a snapshot of the listener list taken before the first
// callback runs. Listeners may connect, disconnect or emit again from inside a
// callback: new listeners are not called during the current emission, and a
// listener disconnected mid-emission is not called afterwards.
//
// Signals are not safe for concurrent use.
//
// Example:
//
//	var sizeChanged signal.Signal[signal.Change[float64]]
//	tok := sizeChanged.Connect(func(c signal.Change[float64]) {
//	    fmt.Println(c.Previous, "->", c.Current)
//	})
//	sizeChanged.Emit(signal.Change[float64]{Current: 2, Previous: 1})
//	sizeChanged.Disconnect(tok)
package signal

import "sync/atomic"

// Token identifies one connected listener. The zero Token is never issued.
type Token uint64

// nextToken is global so tokens are unique across all signals.
var nextToken atomic.Uint64

// Change carries the new and the previous value of a notification.
type Change[T any] struct {
	Current  T
	Previous T
}

type listener[T any] struct {
	token  Token
	fn     func(T)
	active bool
}

// Signal is a multicast callback list. The zero value is ready to use.
type Signal[T any] struct {
	listeners []*listener[T]
}

// Connect registers fn and returns the token that removes it.
func (s *Signal[T]) Connect(fn func(T)) Token {
	tok := Token(nextToken.Add(1))
	s.listeners = append(s.listeners, &listener[T]{token: tok, fn: fn, active: true})
	return tok
}

// Disconnect removes the listener registered under tok.
// It reports whether the token was connected to this signal.
func (s *Signal[T]) Disconnect(tok Token) bool {
	for i, l := range s.listeners {
		if l.token == tok {
			l.active = false
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every listener connected at the time of the call, in
// registration order.
func (s *Signal[T]) Emit(v T) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		if l.active {
			l.fn(v)
		}
	}
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int { return len(s.listeners) }

// Reset disconnects every listener.
func (s *Signal[T]) Reset() {
	for _, l := range s.listeners {
		l.active = false
	}
	s.listeners = nil
}
