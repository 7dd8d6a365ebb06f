// Package google handles OAuth2 authentication against Google APIs.
//
// The assistant keeps two independent credential sets: a broad read-only
// scope used for browsing calendars, and a narrow events scope used for the
// single calendar the bot writes to. Each credential is authorized
// interactively once and then persisted to a token file in the user cache
// directory; expired access tokens are refreshed automatically when a
// refresh token is present.
package google
