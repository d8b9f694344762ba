// Package dalil is the client SDK for the dalil business directory API.
//
// The Client wraps the HTTP API: listing search, free-text suggestion
// preview, the canonical category table, and health. LiveQuery layers an
// interactive search session on top of it: free-text edits are debounced,
// discrete facet changes dispatch immediately, and out-of-order responses
// are discarded so the newest selection always wins.
package dalil
