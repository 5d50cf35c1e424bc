// Package server implements boxes-server, which hosts documents by handle.
//
// Each document is a stored string: the percent-encoded notation of one
// root. Clients read and replace documents over plain HTTP and follow
// changes over a websocket.
//
// # Routes
//
//	GET  /health                      liveness check
//	GET  /api/docs                    {"handles": [...]}
//	GET  /api/docs/{handle}           stored string, 404 when absent
//	PUT  /api/docs/{handle}           replace; 422 when the body does not parse
//	GET  /api/docs/{handle}/watch     websocket; one text message per change
//
// A PUT is validated by decoding and parsing the body, so a server never
// holds a document an editor would refuse to load. A watch connection
// receives the current string on connect and every accepted change after.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Port:      server.DefaultPort,
//	    DataDir:   "/var/lib/boxes",
//	    Advertise: true,
//	    LogLevel:  "info",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Persistence
//
// With DataDir set, documents are loaded from and written to <handle>.box
// files in readable notation. Without it, documents live only in memory.
//
// # TLS
//
// Certificates come from CertPath/KeyPath, or GenerateCert creates a
// self-signed certificate in memory for the listen host.
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM: it withdraws its mDNS
// advertisement, closes watch connections and waits for in-flight requests.
package server
