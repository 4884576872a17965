package anonnet

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

// TestNewClient tests client construction and address validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid address", func(t *testing.T) {
		t.Parallel()
		client, err := NewClient("127.0.0.1:9050", 30*time.Second)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress() = %q", client.ProxyAddress())
		}
	})

	t.Run("invalid addresses return ErrInvalidProxyAddress", func(t *testing.T) {
		t.Parallel()
		for _, addr := range []string{
			"",
			"no-port",
			":9050",
			"host:",
			"host:notaport",
			"host:0",
			"host:70000",
			"too:many:colons",
		} {
			if _, err := NewClient(addr, time.Second); !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("NewClient(%q) error = %v, expected ErrInvalidProxyAddress", addr, err)
			}
		}
	})
}

// TestIsValidProxyAddress tests the address format check.
func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		valid   bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:1", true},
		{"proxy.example.com:65535", true},
		{"127.0.0.1:65536", false},
		{"127.0.0.1:0", false},
		{"127.0.0.1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()
			if got := isValidProxyAddress(tt.address); got != tt.valid {
				t.Errorf("isValidProxyAddress(%q) = %v, expected %v", tt.address, got, tt.valid)
			}
		})
	}
}

// TestNewHTTPClient verifies the proxy-routed HTTP client configuration.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient("127.0.0.1:9050", 42*time.Second)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	httpClient := client.NewHTTPClient()
	if httpClient.Timeout != 42*time.Second {
		t.Errorf("timeout = %v, expected 42s", httpClient.Timeout)
	}
	if httpClient.Transport == nil {
		t.Fatal("expected transport to be configured")
	}
}

// TestProxyStatus tests status strings and error mapping.
func TestProxyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status      ProxyStatus
		str         string
		expectedErr error
	}{
		{ProxyStatusOK, "OK", nil},
		{ProxyStatusWrongType, "wrong type (not Tor)", ErrProxyNotTor},
		{ProxyStatusCannotConnect, "cannot connect", ErrProxyCannotConnect},
		{ProxyStatusTimeout, "timeout", ErrProxyTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.str {
				t.Errorf("String() = %q, expected %q", got, tt.str)
			}
			if err := tt.status.Error(); !errors.Is(err, tt.expectedErr) {
				t.Errorf("Error() = %v, expected %v", err, tt.expectedErr)
			}
		})
	}
}

// TestCheckConnection tests the SOCKS5 verification handshake against
// mock proxy servers.
func TestCheckConnection(t *testing.T) {
	t.Parallel()

	t.Run("returns CannotConnect for non-existent proxy", func(t *testing.T) {
		t.Parallel()

		// Use a port that's unlikely to be in use
		client, err := NewClient("127.0.0.1:59999", 30*time.Second)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		status := client.CheckConnection(context.Background())
		if status != ProxyStatusCannotConnect {
			t.Errorf("expected ProxyStatusCannotConnect, got %v", status)
		}
	})

	t.Run("returns WrongType for non-SOCKS5 server", func(t *testing.T) {
		t.Parallel()

		// Start a mock server that doesn't speak SOCKS5
		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to start mock server: %v", err)
		}
		defer listener.Close()

		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			// Read the client's SOCKS5 greeting first
			buf := make([]byte, 3)
			_, _ = conn.Read(buf)
			// Send HTTP response instead of SOCKS5
			_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		}()

		client, err := NewClient(listener.Addr().String(), 30*time.Second)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		status := client.CheckConnection(context.Background())
		if status != ProxyStatusWrongType {
			t.Errorf("expected ProxyStatusWrongType, got %v", status)
		}
	})

	t.Run("returns WrongType for SOCKS5 requiring auth", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to start mock server: %v", err)
		}
		defer listener.Close()

		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			// Read client greeting
			buf := make([]byte, 3)
			_, _ = conn.Read(buf)
			// Respond with SOCKS5 version but require auth (0xFF = no acceptable methods)
			_, _ = conn.Write([]byte{0x05, 0xFF})
		}()

		client, err := NewClient(listener.Addr().String(), 30*time.Second)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		status := client.CheckConnection(context.Background())
		if status != ProxyStatusWrongType {
			t.Errorf("expected ProxyStatusWrongType, got %v", status)
		}
	})

	t.Run("returns OK for valid SOCKS5 proxy", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to start mock server: %v", err)
		}
		defer listener.Close()

		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			// Read client greeting (version + num methods + methods)
			buf := make([]byte, 3)
			_, _ = conn.Read(buf)

			// Respond with SOCKS5 version, no auth required
			_, _ = conn.Write([]byte{0x05, 0x00})

			// Read CONNECT request
			connectBuf := make([]byte, 256)
			_, _ = conn.Read(connectBuf)

			// Respond with host-unreachable; any SOCKS5 reply proves the
			// proxy processed the request
			_, _ = conn.Write([]byte{0x05, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		}()

		client, err := NewClient(listener.Addr().String(), 30*time.Second)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		status := client.CheckConnection(context.Background())
		if status != ProxyStatusOK {
			t.Errorf("expected ProxyStatusOK, got %v", status)
		}
	})

	t.Run("returns WrongType for wrong version in CONNECT response", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to start mock server: %v", err)
		}
		defer listener.Close()

		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			buf := make([]byte, 3)
			_, _ = conn.Read(buf)
			_, _ = conn.Write([]byte{0x05, 0x00})

			connectBuf := make([]byte, 256)
			_, _ = conn.Read(connectBuf)

			// Respond with wrong version (0x04 instead of 0x05)
			_, _ = conn.Write([]byte{0x04, 0x00, 0x00, 0x01})
		}()

		client, err := NewClient(listener.Addr().String(), 30*time.Second)
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		status := client.CheckConnection(context.Background())
		if status != ProxyStatusWrongType {
			t.Errorf("expected ProxyStatusWrongType, got %v", status)
		}
	})
}
