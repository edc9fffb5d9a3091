// Package gateway implements the HTTP clients for the collaborator CRUD
// surfaces: inputs, outputs, agents, termination conditions and runs. All
// resources share one paginated listing shape and the standard
// getAll/getById/create/update/delete contract, so the per-resource clients
// are thin typed views over a single generic core.
//
// Transport and API failures are propagated to the caller (never swallowed)
// so the UI layer can offer a retry; a missing resource is reported as
// ErrNotFound for callers that need to branch on it.
package gateway
