package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
)

const (
	// ServiceType is the mDNS service type boxes-server registers
	ServiceType = "_boxes._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// APIPath is advertised in the path TXT record
	APIPath = "/api/docs"
)

// Scanner handles mDNS discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// browse feeds parsed services to found until ctx ends or found returns
// false.
func (s *Scanner) browse(ctx context.Context, found func(*Service) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			svc := parseServiceEntry(entry)
			if svc == nil {
				continue
			}
			logging.Debug("Discovered server", zap.String("instance", svc.Instance), zap.String("url", svc.BaseURL()))
			if !found(svc) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once the browse context ends.
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// Scan returns every server that answers within the timeout, one entry per
// instance.
func (s *Scanner) Scan(ctx context.Context) ([]*Service, error) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	var services []*Service

	err := s.browse(ctx, func(svc *Service) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[svc.Instance] {
			seen[svc.Instance] = true
			services = append(services, svc)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return services, nil
}

// WaitForServer returns the named instance as soon as it answers.
func (s *Scanner) WaitForServer(ctx context.Context, instance string) (*Service, error) {
	result := make(chan *Service, 1)
	err := s.browse(ctx, func(svc *Service) bool {
		if svc.Instance != instance {
			return true
		}
		select {
		case result <- svc:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case svc := <-result:
		return svc, nil
	default:
		return nil, fmt.Errorf("server %q not found within %v", instance, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Service. Entries
// without a usable address return nil.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Service {
	if entry == nil || entry.Instance == "" || entry.Port == 0 {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Service{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		TLS:          metadata["tls"] == "1",
		Version:      metadata["version"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForServers is a convenience function to scan with a custom timeout
func ScanForServers(timeout time.Duration) ([]*Service, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(context.Background())
}

// TXTRecords returns the TXT records a server advertises.
func TXTRecords(version string, tls bool) []string {
	t := "0"
	if tls {
		t = "1"
	}
	return []string{"version=" + version, "tls=" + t, "path=" + APIPath}
}

// Advertisement is a live mDNS registration.
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers instance on port until Shutdown is called.
func Advertise(instance string, port int, txt []string) (*Advertisement, error) {
	srv, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising server via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: srv}, nil
}

// Shutdown withdraws the registration.
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.server = nil
}
