package compiler

import "context"

// semaphore bounds the number of units parsed at once. Each buffered slot is
// one unit in flight.
type semaphore chan struct{}

func newSemaphore(n int) semaphore {
	return make(semaphore, max(n, 1))
}

// Acquire takes a slot. A context that is already done wins over a free
// slot, so cancelled compiles start no new units.
func (s semaphore) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s semaphore) Release() {
	<-s
}
