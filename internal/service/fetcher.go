package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
)

var errBlockedAddress = errors.New("address is not publicly routable")

// nonPublic lists ranges a fetched page may never resolve into. Loopback,
// private, link-local and unspecified addresses are covered by netip
// predicates in publicAddr.
var nonPublic = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("64:ff9b::/96"),
}

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() || addr.IsUnspecified() || addr.IsLoopback() || addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || addr.IsMulticast() {
		return false
	}
	for _, p := range nonPublic {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// dialControl returns a net.Dialer Control hook. It runs after name
// resolution for every connection, redirects included, and refuses
// destinations allow rejects.
func dialControl(allow func(netip.AddrPort) bool) func(string, string, syscall.RawConn) error {
	return func(_, address string, _ syscall.RawConn) error {
		ap, err := netip.ParseAddrPort(address)
		if err != nil || !allow(ap) {
			return fmt.Errorf("%w: %s", errBlockedAddress, address)
		}
		return nil
	}
}

// newRestrictedClient returns a client that only connects where allow
// permits. Proxies are disabled so the check applies to the real destination.
func newRestrictedClient(allow func(netip.AddrPort) bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   dialControl(allow),
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: config.FetchTimeout, Transport: transport}
}

// PageFetcher downloads a page for extraction.
type PageFetcher struct {
	client  *http.Client
	maxSize int64
}

// NewPageFetcher uses client as given; a nil client gets one restricted to
// public addresses.
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = newRestrictedClient(func(ap netip.AddrPort) bool { return publicAddr(ap.Addr()) })
	}
	return &PageFetcher{client: client, maxSize: config.MaxPageSize}
}

// Fetch returns the body of rawURL. Only http and https are allowed;
// bodies over the size cap fail with domain.ErrPageTooLarge.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url", domain.ErrFetchFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; chatexport/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, domain.ErrPageTooLarge
	}
	return body, nil
}
