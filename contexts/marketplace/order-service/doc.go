// Package orders hosts the order-service bounded context: idempotent
// multi-item order placement, order history for customers, admin order
// administration, and the outbox relay that publishes order events.
//
// Placement runs validate, dedupe, stock-check and commit in that order. The
// (user_id, idempotency_key) unique index is the authority on duplicates; the
// redis key cache only short-circuits the lookup.
package orders
