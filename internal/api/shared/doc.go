// Package shared holds HTTP helpers used by the api handlers, the api
// middleware and the realtime upgrade handler: context keys, JSON request
// decoding and the response envelopes.
package shared
