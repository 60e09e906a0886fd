package sched

// Deferred pairs a rapidly changing value with a copy that is allowed to lag
// behind it. The urgent side is written on every input event; the deferred
// side is written only when a transition computed for that value is accepted.
type Deferred[T comparable] struct {
	urgent   T
	deferred T
}

// NewDeferred returns a Deferred whose two sides both hold v.
func NewDeferred[T comparable](v T) Deferred[T] {
	return Deferred[T]{urgent: v, deferred: v}
}

// Set records a new urgent value.
func (d *Deferred[T]) Set(v T) {
	d.urgent = v
}

// Commit advances the deferred copy to v.
func (d *Deferred[T]) Commit(v T) {
	d.deferred = v
}

// Urgent returns the latest value.
func (d Deferred[T]) Urgent() T {
	return d.urgent
}

// Value returns the deferred copy.
func (d Deferred[T]) Value() T {
	return d.deferred
}

// Stale reports whether the deferred copy lags the urgent value.
func (d Deferred[T]) Stale() bool {
	return d.urgent != d.deferred
}
