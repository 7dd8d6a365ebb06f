// Package calendar provides typed clients for the Google Calendar API.
//
// Two client types mirror the two credential scopes the assistant keeps:
//
//   - Reader is built from the broad read-only credential and can browse
//     any calendar. It has no write methods.
//   - Writer is built from the narrow events credential and is bound to a
//     single calendar at construction. Every mutation the assistant issues
//     goes through a Writer.
//
// The split makes credential-scope isolation a compile-time property
// rather than a runtime convention. Neither client retries; provider
// failures are wrapped and returned to the caller.
package calendar
