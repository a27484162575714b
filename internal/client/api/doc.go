// Package api is the CLI's client for the contact-book HTTP API.
//
// # Overview
//
// HTTPClient keeps the token pair obtained at login, attaches the access
// token to protected calls and, when the server answers 401, refreshes the
// pair once with the stored refresh token and repeats the call.
//
// # Error Handling
//
// Responses are mapped onto the sentinel classes in internal/common
// (ErrorNotFound, ErrorConflict, ErrorValidation) plus ErrUnauthorized,
// ErrRateLimited and ErrUnavailable defined here. The server's "detail"
// text is appended, so errors.Is still matches the class.
package api
