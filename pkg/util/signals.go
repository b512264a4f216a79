package util

import "sync"

// SignalHandler receives the emitting object plus any extra arguments.
type SignalHandler func(sender any, params ...any)

// Signals is a tiny in-process event bus. Handlers run synchronously in the
// emitting goroutine; listeners that do slow work (mail, pushes) are expected
// to spawn their own goroutine.
type Signals struct {
	mu       sync.RWMutex
	handlers map[string][]SignalHandler
}

var (
	sigOnce sync.Once
	sig     *Signals
)

// Sig returns the process-wide signal bus.
func Sig() *Signals {
	sigOnce.Do(func() {
		sig = &Signals{handlers: make(map[string][]SignalHandler)}
	})
	return sig
}

// Connect registers a handler for the named signal.
func (s *Signals) Connect(name string, h SignalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = append(s.handlers[name], h)
}

// Emit invokes every handler registered for the named signal.
func (s *Signals) Emit(name string, sender any, params ...any) {
	s.mu.RLock()
	handlers := make([]SignalHandler, len(s.handlers[name]))
	copy(handlers, s.handlers[name])
	s.mu.RUnlock()

	for _, h := range handlers {
		h(sender, params...)
	}
}

// Reset removes every registered handler. Test helper.
func (s *Signals) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = make(map[string][]SignalHandler)
}
