package server

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/store"
)

func newTestServer(t *testing.T, dir *store.Dir) (*httptest.Server, *Documents, *Hub) {
	t.Helper()
	docs := NewDocuments(dir)
	hub := NewHub()
	srv := httptest.NewServer(Handler(docs, hub))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, docs, hub
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health map[string]any
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "ok" {
		t.Errorf("health = %v", health)
	}
}

func TestDocs_PutGetList(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	stored := notation.EncodeString("('a'b,('c))")

	resp, _ := do(t, http.MethodPut, srv.URL+"/api/docs/notes", stored)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT status = %d, want 204", resp.StatusCode)
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/api/docs/notes", "")
	if resp.StatusCode != http.StatusOK || body != stored {
		t.Errorf("GET = %d %q, want 200 %q", resp.StatusCode, body, stored)
	}

	_, body = do(t, http.MethodGet, srv.URL+"/api/docs", "")
	var list struct{ Handles []string }
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"notes"}, list.Handles); diff != "" {
		t.Errorf("handles mismatch (-want +got):\n%s", diff)
	}
}

func TestDocs_Errors(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		want     int
		wantKind string
	}{
		{"missing document", http.MethodGet, "/api/docs/nothing", "", http.StatusNotFound, ""},
		{"invalid handle", http.MethodGet, "/api/docs/bad!", "", http.StatusBadRequest, ""},
		{"unterminated list", http.MethodPut, "/api/docs/x", notation.EncodeString("('a"), http.StatusUnprocessableEntity, "UnexpectedEnd"},
		{"bad percent encoding", http.MethodPut, "/api/docs/x", "%zz", http.StatusUnprocessableEntity, "DecodeFailure"},
		{"trailing characters", http.MethodPut, "/api/docs/x", notation.EncodeString("('a)'b"), http.StatusUnprocessableEntity, "TrailingCharacters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.want, body)
			}
			if tt.wantKind == "" {
				return
			}
			var e struct{ Kind string }
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatal(err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", e.Kind, tt.wantKind)
			}
		})
	}

	// A rejected PUT must not create the document.
	if resp, _ := do(t, http.MethodGet, srv.URL+"/api/docs/x", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("rejected document was stored: status %d", resp.StatusCode)
	}
}

func TestWatch(t *testing.T) {
	srv, docs, hub := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := notation.EncodeString("('v1)")
	if _, err := docs.Put(ctx, "shared", first); err != nil {
		t.Fatal(err)
	}

	reader, err := store.NewRemote(srv.URL, "shared")
	if err != nil {
		t.Fatal(err)
	}
	got := make(chan string, 4)
	go func() { _ = reader.Watch(ctx, func(s string) { got <- s }) }()

	expect := func(want string) {
		t.Helper()
		select {
		case s := <-got:
			if s != want {
				t.Errorf("watch delivered %q, want %q", s, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("watch did not deliver %q", want)
		}
	}
	expect(first)

	writer, err := store.NewRemote(srv.URL, "shared")
	if err != nil {
		t.Fatal(err)
	}
	second := notation.EncodeString("('v2)")
	if err := writer.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	expect(second)

	// An unchanged PUT is not broadcast.
	if err := writer.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-got:
		t.Errorf("unchanged save broadcast %q", s)
	case <-time.After(50 * time.Millisecond):
	}

	if hub.Count("shared") != 1 {
		t.Errorf("Count() = %d, want 1", hub.Count("shared"))
	}
}

func TestDocuments_UpdatePublishesInStoreOrder(t *testing.T) {
	docs := NewDocuments(nil)
	ctx := context.Background()

	var published []string
	publish := func(_, stored string) { published = append(published, stored) }

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored := notation.EncodeString(fmt.Sprintf("('v%d)", i))
			if _, err := docs.Update(ctx, "shared", stored, publish); err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(published) != 32 {
		t.Fatalf("published %d changes, want 32", len(published))
	}
	current, _ := docs.Get("shared")
	if got := published[len(published)-1]; got != current {
		t.Errorf("last published = %q, want %q", got, current)
	}
}

func TestDocuments_WatchHoldsOffUpdates(t *testing.T) {
	docs := NewDocuments(nil)
	ctx := context.Background()
	first := notation.EncodeString("('v1)")
	second := notation.EncodeString("('v2)")
	if _, err := docs.Put(ctx, "shared", first); err != nil {
		t.Fatal(err)
	}

	var events []string
	var mu sync.Mutex
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	registering := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-registering
		_, _ = docs.Update(ctx, "shared", second, func(_, stored string) { record("publish " + stored) })
	}()

	docs.Watch("shared", func(current string) {
		record("snapshot " + current)
		close(registering)
		select {
		case <-done:
			t.Error("Update() returned while a watcher was registering")
		case <-time.After(50 * time.Millisecond):
		}
	})
	<-done

	want := []string{"snapshot " + first, "publish " + second}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestWatch_ConcurrentPuts(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader, err := store.NewRemote(srv.URL, "shared")
	if err != nil {
		t.Fatal(err)
	}
	got := make(chan string, 64)
	go func() { _ = reader.Watch(ctx, func(s string) { got <- s }) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored := notation.EncodeString(fmt.Sprintf("('v%d)", i))
			req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/docs/shared", strings.NewReader(stored))
			if err != nil {
				t.Error(err)
				return
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	_, current := do(t, http.MethodGet, srv.URL+"/api/docs/shared", "")
	var last string
	select {
	case last = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("watch delivered nothing")
	}
	for quiet := false; !quiet; {
		select {
		case last = <-got:
		case <-time.After(200 * time.Millisecond):
			quiet = true
		}
	}
	if last != current {
		t.Errorf("watcher ended on %q, want %q", last, current)
	}
}

func TestDocuments_DataDir(t *testing.T) {
	dir := store.NewDir(t.TempDir())
	ctx := context.Background()
	stored := notation.EncodeString("('kept)")

	docs := NewDocuments(dir)
	if _, err := docs.Put(ctx, "notes", stored); err != nil {
		t.Fatal(err)
	}

	reloaded := NewDocuments(dir)
	n, err := reloaded.LoadDir(ctx)
	if err != nil || n != 1 {
		t.Fatalf("LoadDir() = %d, %v, want 1 document", n, err)
	}
	if got, ok := reloaded.Get("notes"); !ok || got != stored {
		t.Errorf("Get() = %q, %v, want %q", got, ok, stored)
	}
}

func TestGenerateSelfSigned(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSigned([]string{"studio.local", "192.168.1.20"}, 0)
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	if _, err := NewTLSConfigFromMemory(certPEM, keyPEM); err != nil {
		t.Fatalf("NewTLSConfigFromMemory() error = %v", err)
	}

	block, _ := pem.Decode(certPEM)
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"studio.local"}, cert.DNSNames); diff != "" {
		t.Errorf("DNSNames mismatch (-want +got):\n%s", diff)
	}
	if len(cert.IPAddresses) != 1 || cert.IPAddresses[0].String() != "192.168.1.20" {
		t.Errorf("IPAddresses = %v", cert.IPAddresses)
	}
	if err := cert.VerifyHostname("studio.local"); err != nil {
		t.Errorf("VerifyHostname() error = %v", err)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	resp, _ := do(t, http.MethodGet, "http://"+srv.Addr().String()+"/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}
