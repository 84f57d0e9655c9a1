// Package queue defines the contract for enqueuing and consuming score
// reports.
package queue

// defaultQueueCapacity bounds the queue when no option overrides it.
const defaultQueueCapacity = 100000

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
