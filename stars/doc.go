// Package stars turns star events into StarRecord state and writes it to the
// record store.
package stars
