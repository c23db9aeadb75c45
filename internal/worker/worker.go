package worker

import "context"

// Worker is a background loop owned by the application. Start blocks until
// the context is cancelled; Name identifies the worker in startup logs.
type Worker interface {
	Name() string
	Start(ctx context.Context)
}
