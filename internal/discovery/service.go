package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Service is a discovered boxes-server
type Service struct {
	// Instance is the advertised instance name (e.g., "studio")
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	// Port is the HTTP port
	Port int

	// TLS reports whether the server expects https
	TLS bool

	// Version is the advertised server version
	Version string

	// Metadata contains every TXT record
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable description of the service
func (s *Service) String() string {
	return fmt.Sprintf("boxes-server %s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the server's base URL
func (s *Service) BaseURL() string {
	scheme := "http"
	if s.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(s.IP, strconv.Itoa(s.Port)))
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
