package protocol

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve resolves a page or command reference against the current page URL
func Resolve(base *url.URL, ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	if base == nil {
		if !u.IsAbs() {
			return nil, fmt.Errorf("relative reference %q without a base URL", ref)
		}
		return u, nil
	}
	return base.ResolveReference(u), nil
}

// Resolve returns a copy of the command whose references no longer depend on base
func (c Command) Resolve(base *url.URL) (Command, error) {
	switch c.Type {
	case CommandPush:
		u, err := Resolve(base, c.Page)
		if err != nil {
			return c, err
		}
		c.Page = u.String()
	case CommandRun:
		u, err := Resolve(base, c.Target)
		if err != nil {
			return c, err
		}
		c.Target = u.String()
	}
	return c, nil
}

// NormalizeURL turns user input into a fetchable URL, assuming https when no scheme is given
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty URL")
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return u, nil
}

// IsURL reports whether text is already an absolute URL
func IsURL(text string) bool {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Origin returns scheme://host[:port], dropping the scheme's default port
func Origin(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return scheme + "://" + host + ":" + port
	}
	return scheme + "://" + host
}
