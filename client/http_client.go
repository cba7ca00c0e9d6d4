package client

import (
	"net/http"
	"net/url"
	"strings"
)

// defaultHTTPClient builds the shared client for negotiation and
// transfers. A malformed proxy value falls back to the default client
// rather than failing construction.
func defaultHTTPClient(proxy string) *http.Client {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return http.DefaultClient
	}
	u, err := url.Parse(proxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return http.DefaultClient
	}
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultClient
	}
	t := base.Clone()
	t.Proxy = http.ProxyURL(u)
	return &http.Client{Transport: t}
}
