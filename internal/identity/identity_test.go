package identity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeCarrier struct {
	headers map[string]string
	cookies map[string]string
}

func (c fakeCarrier) Get(key string, _ ...string) string     { return c.headers[key] }
func (c fakeCarrier) Cookies(key string, _ ...string) string { return c.cookies[key] }
func (fakeCarrier) Protocol() string                         { return "http" }
func (fakeCarrier) Hostname() string                         { return "localhost" }

func TestHeaderResolver(t *testing.T) {
	resolver := NewHeaderResolver("")
	if resolver.Header != DefaultHeader {
		t.Fatalf("Expected default header %s, got %s", DefaultHeader, resolver.Header)
	}

	id, err := resolver.Resolve(context.Background(), fakeCarrier{headers: map[string]string{DefaultHeader: " alice "}})
	if err != nil {
		t.Fatalf("Failed to resolve: %v", err)
	}
	if id.UserID != "alice" || id.Source != "header" {
		t.Errorf("Expected alice from header, got %+v", id)
	}

	_, err = resolver.Resolve(context.Background(), fakeCarrier{headers: map[string]string{DefaultHeader: "  "}})
	if !errors.Is(err, ErrNoIdentity) {
		t.Errorf("Expected ErrNoIdentity for a blank header, got %v", err)
	}
}

func TestAuthorizerResolverWithoutSession(t *testing.T) {
	resolver := NewAuthorizerResolver("http://127.0.0.1:1", "client")
	if len(resolver.Roles) != 1 || resolver.Roles[0] != "user" {
		t.Errorf("Expected default role user, got %v", resolver.Roles)
	}

	_, err := resolver.Resolve(context.Background(), fakeCarrier{})
	if !errors.Is(err, ErrNoIdentity) {
		t.Errorf("Expected ErrNoIdentity without a session cookie, got %v", err)
	}
	if resolver.client != nil {
		t.Error("Expected the client to stay uninitialized without a session")
	}
}

func TestAuthorizerResolverRetriesAfterFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	carrier := fakeCarrier{cookies: map[string]string{SessionCookie: "session"}}
	resolver := NewAuthorizerResolver("http://"+addr, "client")
	_, err = resolver.Resolve(context.Background(), carrier)
	if err == nil || errors.Is(err, ErrNoIdentity) {
		t.Fatalf("Expected a system failure for an unreachable Authorizer, got %v", err)
	}
	if resolver.client != nil {
		t.Fatal("Expected no client after a failed initialization")
	}

	authz := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"invalid session"}],"data":null}`))
	}))
	defer authz.Close()

	resolver.URL = authz.URL
	_, err = resolver.Resolve(context.Background(), carrier)
	if !errors.Is(err, ErrNoIdentity) {
		t.Errorf("Expected the session to be rejected once Authorizer answers, got %v", err)
	}
	if resolver.client == nil {
		t.Error("Expected the client to be created on retry")
	}
}
