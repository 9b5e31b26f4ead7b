// Package api provides the HTTP REST API and WebSocket hub for the solver.
//
// Routes (all under /api/v1):
//
//	GET  /health          component health
//	GET  /metrics         runtime, WebSocket and database pool statistics
//	POST /cycles          solve a cycle (empty body solves the reference plant)
//	GET  /cycles          recent runs, newest first (?limit=)
//	GET  /cycles/{id}     one stored run
//	GET  /steam           state point from exactly two of p, t, h, s, x
//	GET  /ws              WebSocket; subscribe to "cycle.solved"
//
// The server follows the same lifecycle as the infrastructure clients:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
