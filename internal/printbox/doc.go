// Package printbox provides a typed HTTP client for the printbox daemon,
// the Raspberry Pi thermal photo printer backend.
//
// The client is the single place transport failures are interpreted: every
// method returns an error when the operation did not happen, and the rest of
// the application treats that as "no state changed" rather than assuming
// partial success. Rejections the daemon explains itself come back as
// *APIError so the server's wording can be shown verbatim.
package printbox
