// Package webhooks authenticates and processes GitHub star deliveries.
//
// A delivery moves through a fixed set of states:
// received -> classified -> verified|skipped_verification -> normalized ->
// persisted -> responded, with the terminal exits ignored (event type out of
// scope), rejected (signature invalid) and failed (unexpected fault).
// Nothing is retried here; redelivery is the sender's job.
package webhooks
