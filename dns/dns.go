// Package dns resolves URI hosts.
package dns

//go:generate errtrace -w .

import (
	"context"
	"net"
	"net/netip"
	"slices"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/gouri/uri"
)

// Resolver wraps net.Resolver with lookups through an explicit name server.
type Resolver struct {
	net.Resolver

	// NameServer specifies the DNS server address (e.g., "8.8.8.8:53").
	// If empty, the embedded net.Resolver is used.
	NameServer string
	// Timeout specifies the timeout for DNS queries.
	// If zero, defaults to 5 seconds.
	Timeout time.Duration
}

// LookupIP looks up IPv4 and IPv6 addresses of the host.
// IP literals, including bracketed IPv6 literals, are returned as is without a query.
func (r *Resolver) LookupIP(ctx context.Context, host string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		return []netip.Addr{addr.Unmap()}, nil
	}

	if r.NameServer == "" {
		addrs, err := r.Resolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		for i := range addrs {
			addrs[i] = addrs[i].Unmap()
		}
		return addrs, nil
	}

	nameserver, err := r.nameserver()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var (
		addrs   []netip.Addr
		lastErr error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		res, err := r.exchange(ctx, nameserver, host, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		addrs = append(addrs, res...)
	}
	if len(addrs) == 0 {
		if lastErr != nil {
			return nil, errtrace.Wrap(lastErr)
		}
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        "no such host",
			Name:       host,
			Server:     nameserver,
			IsNotFound: true,
		})
	}
	return slices.Compact(addrs), nil
}

func (r *Resolver) exchange(ctx context.Context, nameserver, host string, qtype uint16) ([]netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)
	m.RecursionDesired = true

	client := &dns.Client{Timeout: r.timeout()}
	resp, _, err := client.ExchangeContext(ctx, m, nameserver)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        dns.RcodeToString[resp.Rcode],
			Name:       host,
			Server:     nameserver,
			IsNotFound: resp.Rcode == dns.RcodeNameError,
		})
	}

	addrs := make([]netip.Addr, 0, len(resp.Answer))
	for _, ans := range resp.Answer {
		var ip net.IP
		switch rr := ans.(type) {
		case *dns.A:
			ip = rr.A
		case *dns.AAAA:
			ip = rr.AAAA
		default:
			continue
		}
		if addr, ok := netip.AddrFromSlice(ip); ok {
			addrs = append(addrs, addr.Unmap())
		}
	}
	return addrs, nil
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 5 * time.Second
}

func (r *Resolver) nameserver() (string, error) {
	if _, _, err := net.SplitHostPort(r.NameServer); err != nil {
		return net.JoinHostPort(r.NameServer, "53"), nil //nolint:nilerr
	}
	return r.NameServer, nil
}

// HostResolves returns a URI predicate reporting whether the URI host resolves
// to at least one address. It is meant to be used with [uri.IsValid].
// URIs without a host never resolve. A nil resolver is the [DefaultResolver].
func HostResolves(ctx context.Context, r *Resolver) func(uri.URI) bool {
	if r == nil {
		r = defResolver
	}
	return func(u uri.URI) bool {
		if !u.HasHost() {
			return false
		}
		addrs, err := r.LookupIP(ctx, u.Host())
		return err == nil && len(addrs) > 0
	}
}

var defResolver = &Resolver{}

func DefaultResolver() *Resolver { return defResolver }

func LookupIP(ctx context.Context, host string) ([]netip.Addr, error) {
	return errtrace.Wrap2(defResolver.LookupIP(ctx, host))
}
