package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Checker performs a single readiness attempt against one dependency.
// Implementations must honor ctx cancellation and deadlines; a nil
// return means the dependency accepted the probe.
type Checker interface {
	fmt.Stringer
	Check(ctx context.Context) error
}

// NewChecker builds the checker for a target string. The scheme picks
// the probe protocol; a bare host:port is shorthand for tcp://.
func NewChecker(target string) (Checker, error) {
	if target == "" {
		return nil, fmt.Errorf("%w: empty target", ErrInvalidTarget)
	}

	if !strings.Contains(target, "://") {
		if _, _, err := net.SplitHostPort(target); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTarget, target, err)
		}
		return &dialChecker{network: "tcp", address: target, display: "tcp://" + target}, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTarget, target, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "tcp":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %s: missing host", ErrInvalidTarget, target)
		}
		return &dialChecker{network: "tcp", address: u.Host, display: target}, nil
	case "unix":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			return nil, fmt.Errorf("%w: %s: missing socket path", ErrInvalidTarget, target)
		}
		return &dialChecker{network: "unix", address: path, display: target}, nil
	case "http", "https":
		return newHTTPChecker(target), nil
	case "postgres", "postgresql":
		return newPostgresChecker(target, u), nil
	case "grpc":
		return newGRPCChecker(u)
	case "s3":
		return newS3Checker(u)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

// dialChecker covers tcp and unix targets. An accepted connection is
// the entire readiness contract; nothing is written or read.
type dialChecker struct {
	network string
	address string
	display string
}

func (c *dialChecker) String() string { return c.display }

func (c *dialChecker) Check(ctx context.Context) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, c.network, c.address)
	if err != nil {
		return err
	}
	return conn.Close()
}

// httpChecker issues a GET and treats any 2xx or 3xx answer as ready.
// Redirects are not followed; the redirect itself proves the server is
// answering.
type httpChecker struct {
	url    string
	client *http.Client
}

func newHTTPChecker(target string) *httpChecker {
	return &httpChecker{
		url: target,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *httpChecker) String() string { return c.url }

func (c *httpChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	return fmt.Errorf("%w: status %s", ErrNotServing, resp.Status)
}
