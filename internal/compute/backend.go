package compute

// Backend abstracts where the per-particle update pass runs. The CPU backend
// is always available; the OpenGL backend needs a live GL context and is
// only constructed by the window that owns one.
type Backend interface {
	Name() string
	Available() bool
	Cleanup()
}

// Sharder splits an index range across workers and blocks until every chunk
// has finished. Chunks never overlap, so callers need no locking as long as
// each index writes only its own slots.
type Sharder interface {
	Shard(n int, fn func(start, end int))
}

// Serial runs the pass on the calling goroutine. Used by tests and by the
// bench command as a baseline.
type Serial struct{}

func (Serial) Name() string    { return "serial" }
func (Serial) Available() bool { return true }
func (Serial) Cleanup()        {}

func (Serial) Shard(n int, fn func(start, end int)) { fn(0, n) }
