// Package api is the client's single gateway to the blogging REST service.
//
// # Overview
//
// Gateway.Do sends a request, attaches the stored bearer token, normalizes
// the server's envelope and classifies failures. Call decodes the
// normalized payload into a Go type; the endpoint helpers (Login, ListPosts,
// SearchUsers, ...) are thin wrappers over Call.
//
// # Normalization
//
// Endpoints wrap their payload differently ({data:{user}}, {data:{post}},
// {data:[...], pagination}, {user}, ...). Normalize hides that behind one
// fixed fallback order; callers depend on that order, so it must not be
// "simplified".
//
// # Error Handling
//
// Every failure is an *Error whose Kind is one of the sentinels below, so
// callers can match with errors.Is: ErrUnreachable, ErrUnauthorized,
// ErrForbidden, ErrClient, ErrServer, ErrBadResponse. Message turns any
// error into a user-facing string. Nothing is retried automatically.
//
// A 401 on any endpoint other than login/signup purges the stored token.
// The gateway never navigates or resets sessions itself.
package api
