package anonnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout is the timeout for checking if the Tor proxy is available.
// We use a short timeout here because this is just a connectivity check,
// not an actual request through Tor.
const checkProxyTimeout = 2 * time.Second

// Client provides Tor-routed connectivity for discreet source lookups.
// It wraps a SOCKS5 dialer and provides HTTP clients that route all
// requests through the proxy.
//
// Design decision: We only use the SOCKS5 connectivity here. Daemon
// lifecycle management lives in EmbeddedTor; users with their own Tor
// daemon point the client at it via --tor-proxy.
type Client struct {
	// proxyAddress is the Tor SOCKS5 proxy address in "host:port" format.
	proxyAddress string

	// dialer is the SOCKS5 dialer for Tor connections.
	// We cache this to avoid recreating it for each connection.
	dialer proxy.Dialer

	// timeout is the default timeout for HTTP clients created by this client.
	timeout time.Duration
}

// NewClient creates a new proxy client with the given address and timeout.
//
// The proxyAddress must be in "host:port" format (e.g., "127.0.0.1:9050").
// The timeout is used as the default for HTTP clients created by this client.
//
// This function validates the proxy address format but does not verify
// that the proxy is actually running. Call CheckConnection() to verify.
//
// Design decision: We don't connect to the proxy in the constructor because:
// 1. It allows creating the client even when Tor isn't running yet
// 2. It separates object creation from network operations
// 3. It allows for better testing with mock proxies
func NewClient(proxyAddress string, timeout time.Duration) (*Client, error) {
	// Validate proxy address format
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// Create the SOCKS5 dialer
	// We use nil for auth because Tor's SOCKS port typically doesn't require auth
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &Client{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
// We use a simple check rather than a full URL parser because the format
// is very specific (no scheme, no path, just host and port).
func isValidProxyAddress(address string) bool {
	// Must contain exactly one colon separating host and port
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}

	host := parts[0]
	port := parts[1]

	// Host must not be empty
	if host == "" {
		return false
	}

	// Port must be a valid number between 1 and 65535
	if port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		// Early exit if port is too large
		if portNum > 65535 {
			return false
		}
	}

	return portNum >= 1
}

// SOCKS5 protocol constants
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
	socks5CmdConnect   = 0x01
	socks5AddrTypeDom  = 0x03

	// socks5TestHost is a synthetic hostname used for SOCKS5 verification.
	// This is intentionally a non-resolvable address - we only need to verify
	// the proxy responds to SOCKS5 CONNECT requests, not that the connection
	// succeeds. Using a fake address avoids any interaction with real services.
	socks5TestHost = "connectivity-check.invalid"
)

// CheckConnection verifies that the Tor proxy is running and accessible.
// It returns a ProxyStatus indicating the result of the check.
//
// The check works by performing a SOCKS5 protocol handshake to verify:
// 1. The proxy speaks SOCKS5 protocol
// 2. The proxy accepts connections without authentication
// 3. The proxy can handle hostname-based connections
//
// Security note: This is more robust than just checking HTTP response strings,
// as a fake proxy attack cannot easily mimic proper SOCKS5 protocol behavior.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	// Create a context with timeout for the check
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	// Set a deadline for the SOCKS5 handshake
	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Step 1: SOCKS5 version negotiation
	// Client sends: version (1 byte) + num auth methods (1 byte) + auth methods (N bytes)
	// We offer no authentication (0x00) only
	_, err = conn.Write([]byte{socks5Version, 0x01, socks5AuthNone})
	if err != nil {
		return ProxyStatusCannotConnect
	}

	// Server responds: version (1 byte) + selected auth method (1 byte)
	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		// Anything else means it didn't speak SOCKS5 properly
		return ProxyStatusWrongType
	}

	version := authResp[0]
	authMethod := authResp[1]

	// Verify SOCKS5 version
	if version != socks5Version {
		return ProxyStatusWrongType
	}

	// Verify server accepts no auth (Tor SOCKS port uses this by default)
	if authMethod == socks5AuthNoAccept {
		// Server requires authentication - not typical for Tor
		return ProxyStatusWrongType
	}
	if authMethod != socks5AuthNone {
		// Unknown auth method selected
		return ProxyStatusWrongType
	}

	// Step 2: Verify the proxy can handle connection requests.
	// We send a connection request to a test hostname. The proxy should
	// respond (even with failure for a non-existent host). This verifies
	// it's actually proxying, not just accepting SOCKS5 handshakes.
	testHost := socks5TestHost
	testPort := uint16(80)

	// Build CONNECT request: version + cmd + reserved + addr type + addr + port
	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00, // reserved
		socks5AddrTypeDom,
		byte(len(testHost)),
	}
	connectReq = append(connectReq, []byte(testHost)...)
	connectReq = append(connectReq, byte(testPort>>8), byte(testPort&0xFF))

	_, err = conn.Write(connectReq)
	if err != nil {
		return ProxyStatusCannotConnect
	}

	// Read response header: version + reply + reserved + addr type (at least 4 bytes)
	// We only need to verify the proxy responds to the connect request.
	// The actual connection may fail (that's fine - we're just testing the proxy).
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		// If we got any bytes back but not enough, treat as wrong type
		return ProxyStatusWrongType
	}

	// Verify SOCKS5 version in response
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	// Any response (success=0x00 or failure codes like 0x01-0x08) indicates
	// the proxy is working. Tor will return 0x04 (Host unreachable) or
	// 0x01 (General failure) for invalid hostnames, but the important
	// thing is it processed the SOCKS5 request.
	return ProxyStatusOK
}

// NewHTTPClient creates an HTTP client configured to use the Tor proxy.
// The returned client routes all requests through Tor's SOCKS5 proxy.
//
// Design decisions:
//   - TLS verification stays enabled: intelligence sources are clearnet
//     HTTPS APIs with valid certificates.
//   - Connection pool settings are smaller than defaults because each
//     connection goes through a Tor circuit, which is a limited resource.
//   - Redirect limit is 10 to prevent redirect loops while allowing normal
//     redirects.
//   - Compression is disabled to mitigate CRIME/BREACH-style side channels
//     on anonymity-focused connections.
func (c *Client) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		// Use our SOCKS5 dialer for all connections
		DialContext: func(_ context.Context, network, addr string) (net.Conn, error) {
			return c.dialer.Dial(network, addr)
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		// Limit redirects to prevent loops
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// ProxyAddress returns the configured proxy address.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}
