package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// AuthorizerPingTimeout bounds a reachability probe of the Authorizer service
const AuthorizerPingTimeout = 1500 * time.Millisecond

// PingService checks that a TCP connection to the host of serviceURL can be
// opened within timeout
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	host := parsedURL.Hostname()
	if host == "" {
		return errors.New("invalid URL: missing host")
	}

	port := parsedURL.Port()
	if port == "" {
		port = "80"
		if parsedURL.Scheme == "https" {
			port = "443"
		}
	}
	address := net.JoinHostPort(host, port)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(ctx context.Context, authzURL string) error {
	return PingService(ctx, authzURL, AuthorizerPingTimeout)
}
