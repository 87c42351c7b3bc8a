package security

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

var ErrPrivateAddress = errors.New("address resolves to a private or local network")

// CheckEndpointURL vets a webhook destination before it is stored. Only
// http(s) URLs with a host are accepted, and IP-literal hosts must be public
// unless allowPrivate is set.
func CheckEndpointURL(raw string, allowPrivate bool) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse endpoint url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %q", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return errors.New("endpoint url has no host")
	}

	if allowPrivate {
		return nil
	}

	if ip := net.ParseIP(host); ip != nil && !isPublic(ip) {
		return ErrPrivateAddress
	}

	return nil
}

// SafeDialControl returns a net.Dialer Control hook that rejects connections
// to non-public addresses. DNS has already been resolved by the time it runs,
// so rebinding a hostname to a private address does not bypass the check.
func SafeDialControl(allowPrivate bool) func(network, address string, c syscall.RawConn) error {
	return func(_, address string, _ syscall.RawConn) error {
		if allowPrivate {
			return nil
		}

		host, _, err := net.SplitHostPort(address)
		if err != nil {
			return fmt.Errorf("split host and port from %q: %w", address, err)
		}

		ip := net.ParseIP(host)
		if ip == nil {
			return fmt.Errorf("dial address %q is not an IP", address)
		}

		if !isPublic(ip) {
			return fmt.Errorf("dial %s: %w", address, ErrPrivateAddress)
		}

		return nil
	}
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified())
}
