package utils

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestPingService(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer listener.Close()

	if err := PingService(context.Background(), "http://"+listener.Addr().String(), time.Second); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
}

func TestPingServiceErrors(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	closed := listener.Addr().String()
	listener.Close()

	for _, target := range []string{"http://" + closed, "not a url\x7f", "/relative/path"} {
		if err := PingService(context.Background(), target, 500*time.Millisecond); err == nil {
			t.Errorf("Expected ping of %q to fail", target)
		}
	}
}
