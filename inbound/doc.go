// Package inbound exposes the webhook pipeline and the star record read side
// over HTTP.
//
// Webhook responses are produced by the processor; this package only shapes
// the request into a delivery and writes the response back as JSON.
package inbound
