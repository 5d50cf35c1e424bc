// Boxes-server hosts box documents for sharing between editors.
//
// Documents are kept under handles and served over HTTP. Editors watching a
// handle receive every new version over a websocket. The server can persist
// documents to a directory, serve TLS and advertise itself via mDNS so that
// 'boxes scan' and 'boxes edit --discover' can find it.
//
// Usage:
//
//	boxes-server server [flags]
//
// See 'boxes-server server --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/boxes/internal/server"
	"github.com/muurk/boxes/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "boxes-server",
	Short: "Boxes document share server",
	Long: `A share server for box documents.

Each document is stored under a handle and served at /api/docs/{handle}.
Uploads are validated before they are stored, and editors watching a handle
are sent every new version.

For editing, use the separate 'boxes' utility.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(versionCmd)
}

// Server command and flags
var (
	certPath     string
	keyPath      string
	generateCert bool
	host         string
	port         int
	logLevel     string
	dataDir      string
	noAdvertise  bool
	instanceName string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the share server",
	Long: `Start the share server.

Without --data-dir documents live in memory and are lost on exit. With it,
each document is kept in <data-dir>/<handle>.box in readable notation and
the directory is loaded at start.

The server speaks plain HTTP unless --cert and --key are given or
--generate-cert asks for an in-memory self-signed certificate.`,
	Example: `  # Start on the default port with documents in memory
  boxes-server server

  # Persist documents and log requests
  boxes-server server --data-dir ~/boxes --log-level info

  # Serve TLS with your own certificate
  boxes-server server --cert fullchain.pem --key privkey.pem --port 8443

  # Self-signed TLS, not advertised on the network
  boxes-server server --generate-cert --no-advertise`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serverCmd.Flags().BoolVar(&generateCert, "generate-cert", false, "Serve TLS with a generated self-signed certificate")
	serverCmd.Flags().StringVar(&host, "host", "", "Server hostname (empty = listen on all interfaces)")
	serverCmd.Flags().IntVar(&port, "port", server.DefaultPort, "Server port")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory to persist documents in (memory only if not specified)")
	serverCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not advertise the server via mDNS")
	serverCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default: hostname)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (certPath != "" && keyPath == "") || (certPath == "" && keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if certPath != "" && generateCert {
		return fmt.Errorf("--generate-cert cannot be combined with --cert and --key")
	}

	// If files are provided, validate they exist
	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	// Validate data directory if specified
	if dataDir != "" {
		info, err := os.Stat(dataDir)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cannot access data directory: %w", err)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", dataDir)
		}
	}

	config := &server.Config{
		Host:         host,
		Port:         port,
		CertPath:     certPath,
		KeyPath:      keyPath,
		GenerateCert: generateCert,
		LogLevel:     logLevel,
		DataDir:      dataDir,
		Advertise:    !noAdvertise,
		Name:         instanceName,
	}

	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boxes-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
