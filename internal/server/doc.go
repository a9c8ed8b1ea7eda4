// Package server wires the HTTP layer: the WebSocket upgrade endpoint the
// live notification channel runs over, the REST backstop endpoints the client
// polls, and the observability endpoints.
package server
