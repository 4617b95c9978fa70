package callauth

// Executor runs a unit of work, inline or on another goroutine. The
// deferred call state machine is correct under either.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

// Execute implements Executor for ExecutorFunc.
func (fn ExecutorFunc) Execute(task func()) {
	fn(task)
}

// InlineExecutor runs each task synchronously on the calling goroutine.
func InlineExecutor() Executor {
	return ExecutorFunc(func(task func()) {
		task()
	})
}

// GoExecutor runs each task on its own goroutine.
func GoExecutor() Executor {
	return ExecutorFunc(func(task func()) {
		go task()
	})
}
