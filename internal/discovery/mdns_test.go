package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = host
	e.Port = port
	e.AddrIPv4 = v4
	e.AddrIPv6 = v6
	e.Text = txt
	return e
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
		wantTLS  bool
	}{
		{
			name:     "ipv4 server",
			entry:    entry("studio", "studio.local.", 8420, []net.IP{net.ParseIP("192.168.1.20")}, nil, "version=v1", "tls=0"),
			wantIP:   "192.168.1.20",
			wantPort: 8420,
		},
		{
			name:     "tls server",
			entry:    entry("vault", "vault.local.", 443, []net.IP{net.ParseIP("10.0.0.5")}, nil, "tls=1"),
			wantIP:   "10.0.0.5",
			wantPort: 443,
			wantTLS:  true,
		},
		{
			name:     "prefers ipv4",
			entry:    entry("dual", "dual.local.", 8420, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantIP:   "192.168.1.50",
			wantPort: 8420,
		},
		{
			name:     "ipv6 only",
			entry:    entry("six", "six.local.", 8420, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantIP:   "fe80::1",
			wantPort: 8420,
		},
		{
			name:    "no address",
			entry:   entry("ghost", "ghost.local.", 8420, nil, nil),
			wantNil: true,
		},
		{
			name:    "no port",
			entry:   entry("zero", "zero.local.", 0, []net.IP{net.ParseIP("192.168.1.1")}, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if svc != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", svc)
				}
				return
			}
			if svc == nil {
				t.Fatal("parseServiceEntry() = nil, want service")
			}
			if svc.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", svc.IP, tt.wantIP)
			}
			if svc.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", svc.Port, tt.wantPort)
			}
			if svc.TLS != tt.wantTLS {
				t.Errorf("TLS = %v, want %v", svc.TLS, tt.wantTLS)
			}
			if svc.Instance != tt.entry.Instance {
				t.Errorf("Instance = %v, want %v", svc.Instance, tt.entry.Instance)
			}
			if time.Since(svc.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", svc.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	svc := parseServiceEntry(entry("studio", "studio.local.", 8420,
		[]net.IP{net.ParseIP("192.168.1.20")}, nil,
		TXTRecords("v0.3.0", false)...))
	if svc == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	want := map[string]string{"version": "v0.3.0", "tls": "0", "path": APIPath}
	if diff := cmp.Diff(want, svc.Metadata); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
	if svc.Version != "v0.3.0" {
		t.Errorf("Version = %q", svc.Version)
	}
}

func TestTXTRecords(t *testing.T) {
	got := TXTRecords("v1", true)
	want := []string{"version=v1", "tls=1", "path=/api/docs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TXTRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var a *Advertisement
	a.Shutdown()
	(&Advertisement{}).Shutdown()
}
