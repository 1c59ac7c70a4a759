// Package schoolpass is a client for the SchoolPass REST API.
//
// The package has two layers. Client sends single requests against a
// Session and owns the transient-failure policy: a 401 response triggers one
// re-authentication followed by a resubmit with the fresh token, and a 429
// response waits for the server's Retry-After interval plus a fixed padding
// before resubmitting, up to a configurable number of times. Every other
// non-2xx response is returned as *APIError.
//
// API sits on top of Client and performs the bootstrap handshake required
// before any data call:
//
//  1. fetch the public runtime config document (home base URL and bootstrap token)
//  2. look up the school connection for the configured username on the home base
//  3. resolve the authenticating user within that school
//  4. exchange the credentials for an API token
//
// The final step sends the password as configured by Config.PasswordMode.
// Whether the API expects the plain value or its SHA-1 digest has not been
// confirmed; plain is the default because it is what the live API accepts.
//
// Each API value owns its Session. Create one API per unit of work and
// discard it afterwards; nothing is shared between instances.
//
//	api := schoolpass.NewAPI(cfg, schoolpass.WithLogger(log))
//	if err := api.Init(ctx); err != nil {
//		return err
//	}
//	buses, err := api.ListBuses(ctx)
//
// Errors are classified with sentinel values: ErrInitFailed for handshake
// failures, ErrNotInitialized for data calls made before Init, and
// ErrRequestFailed for failed data calls. The underlying *APIError stays
// reachable through errors.As.
package schoolpass
