package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/discovery"
	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/store"
	"github.com/muurk/boxes/internal/version"
)

// DefaultPort is the port boxes-server listens on unless told otherwise.
const DefaultPort = 8420

// Config holds the server configuration
type Config struct {
	Host         string
	Port         int
	CertPath     string // Path to certificate file (TLS is off without one, unless GenerateCert)
	KeyPath      string // Path to private key file
	GenerateCert bool   // If true, serve TLS with an in-memory self-signed certificate
	LogLevel     string
	DataDir      string // Directory of <handle>.box files (empty = memory only)
	Advertise    bool   // Register the server via mDNS
	Name         string // mDNS instance name (default: hostname)
}

// Server hosts documents over HTTP and websocket watches
type Server struct {
	config     *Config
	docs       *Documents
	hub        *Hub
	tlsConfig  *tls.Config
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	var tlsConfig *tls.Config
	var err error
	switch {
	case config.GenerateCert:
		logging.Info("Generating self-signed server certificate")
		tlsConfig, err = generateTLSConfig(config.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to generate certificate: %w", err)
		}
	case config.CertPath != "" || config.KeyPath != "":
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	var dir *store.Dir
	if config.DataDir != "" {
		if err := os.MkdirAll(config.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dir = store.NewDir(config.DataDir)
	}
	docs := NewDocuments(dir)
	n, err := docs.LoadDir(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if dir != nil {
		logging.Info("Loaded documents", zap.String("dir", config.DataDir), zap.Int("count", n))
	}

	hub := NewHub()
	return &Server{
		config:    config,
		docs:      docs,
		hub:       hub,
		tlsConfig: tlsConfig,
		httpServer: &http.Server{
			Handler:           Handler(docs, hub),
			TLSConfig:         tlsConfig,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func generateTLSConfig(host string) (*tls.Config, error) {
	hosts := []string{"localhost", "127.0.0.1"}
	if host != "" {
		hosts = append(hosts, host)
	}
	if name, err := os.Hostname(); err == nil {
		hosts = append(hosts, name, name+".local")
	}
	certPEM, keyPEM, err := GenerateSelfSigned(hosts, DefaultCertValidDays)
	if err != nil {
		return nil, err
	}
	return NewTLSConfigFromMemory(certPEM, keyPEM)
}

// Documents returns the hosted document set.
func (s *Server) Documents() *Documents {
	return s.docs
}

// Listen binds the configured address. Start calls it when needed.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	fields := []zap.Field{
		zap.String("addr", s.listener.Addr().String()),
		zap.String("version", version.Version),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.String("data_dir", s.config.DataDir),
		zap.String("log_level", s.config.LogLevel),
	}
	if s.tlsConfig != nil {
		fields = append(fields, zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
	}
	logging.Info("Starting boxes-server", fields...)

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) advertise() error {
	name := s.config.Name
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("cannot determine hostname: %w", err)
		}
		name = host
	}
	port := s.config.Port
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	advert, err := discovery.Advertise(name, port, discovery.TXTRecords(version.Version, s.tlsConfig != nil))
	if err != nil {
		return err
	}
	s.advert = advert
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()

	// Hijacked watch connections are not tracked by http.Server.
	s.hub.Close()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.httpServer.Close()
	} else {
		logging.Info("All connections closed gracefully")
	}

	logging.Sync()
	return err
}
