package eventstore

// FailNextAppend is a test helper that makes the in-memory store fail its
// next Append call with the given error, then recover.
func FailNextAppend(s Store, err error) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.appendErr = err
		mem.appendOnce = true
	}
}

// FailAppends makes every subsequent Append on the in-memory store fail
// with the given error. Pass nil to restore normal behaviour.
func FailAppends(s Store, err error) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.appendErr = err
		mem.appendOnce = false
	}
}
