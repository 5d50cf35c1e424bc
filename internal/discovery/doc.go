// Package discovery finds boxes-server instances on the local network and
// advertises them, using multicast DNS (mDNS) via grandcat/zeroconf.
//
// Servers register as "_boxes._tcp" in the "local." domain. TXT records
// carry the server version, whether it speaks TLS and the API path:
//
//	version=v0.3.0
//	tls=1
//	path=/api/docs
//
// # Usage Example
//
//	servers, err := discovery.ScanForServers(3 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range servers {
//	    fmt.Printf("Found: %s at %s\n", s.Instance, s.BaseURL())
//	}
//
// # Network Requirements
//
// mDNS needs UDP port 5353 and multicast on the local segment. Networks
// that isolate clients or block multicast hide servers from scans; connect
// with an explicit URL instead.
package discovery
