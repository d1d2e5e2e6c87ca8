// Package httpclient provides the outbound HTTP client used for endpoint
// calls. Server URLs come from user-editable settings files, so requests
// are validated against SSRF-style targets before dialing; self-hosted
// model servers are the exception and get a client that admits local
// addresses.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkwell-ai/inkwell/errors"
)

const maxRedirects = 10

// Client wraps http.Client with URL validation on requests and redirects.
type Client struct {
	*http.Client
	allowLocal bool
}

// New creates a client that refuses localhost and private-range targets,
// including targets reached through DNS or redirects.
func New(timeout time.Duration) *Client {
	return build(timeout, false)
}

// NewLocal creates a client that admits localhost and private addresses,
// for servers the user runs on their own machine or network.
func NewLocal(timeout time.Duration) *Client {
	return build(timeout, true)
}

func build(timeout time.Duration, allowLocal bool) *Client {
	c := &Client{
		Client:     &http.Client{Timeout: timeout},
		allowLocal: allowLocal,
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.Newf("stopped after %d redirects", maxRedirects)
		}
		if err := c.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if !allowLocal {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}
		c.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, ip := range ips {
					if isPrivateIP(ip) {
						return nil, errors.Newf("private IP address blocked: %s", ip)
					}
				}
				return dialer.DialContext(ctx, network, addr)
			},
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}

	return c
}

// Do executes the request after validating its URL.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

func (c *Client) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return errors.Newf("scheme %q not allowed", scheme)
	}
	if u.User != nil {
		// http://evil.com@target/ style confusion
		return errors.New("URL userinfo not allowed")
	}
	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("URL missing hostname")
	}
	if !c.allowLocal {
		if isLocalhost(hostname) {
			return errors.New("localhost access blocked")
		}
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return errors.Newf("private IP address blocked: %s", hostname)
		}
	}
	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4.IsLoopback() ||
			ip4.IsPrivate() ||
			ip4.IsLinkLocalUnicast() ||
			ip4.IsMulticast() ||
			ip4.IsUnspecified() ||
			ip4[0] >= 240
	}
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	// unique local fc00::/7 and deprecated site-local fec0::/10
	if len(ip) == net.IPv6len {
		if ip[0]&0xfe == 0xfc {
			return true
		}
		if ip[0] == 0xfe && ip[1]&0xc0 == 0xc0 {
			return true
		}
	}
	return ip.IsPrivate()
}
