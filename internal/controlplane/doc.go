// Package controlplane is the client of the statehub management API.
//
// [API] is the contract the reconciler and the registration workflow depend
// on; [Client] implements it over HTTP against the v0 REST endpoints. Every
// request carries the bearer token. Failed calls surface as [*Error], which
// keeps the HTTP status and the server's error code so callers can tell an
// invalid token apart from domain conflicts.
package controlplane
