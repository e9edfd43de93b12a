package openrouter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

const defaultBaseURL = "https://openrouter.ai"

var defaultAllowedHosts = []string{"openrouter.ai", "api.openrouter.ai"}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// ValidateBaseURL accepts only absolute https URLs on an allowed host, so the
// API key is never sent to an arbitrary endpoint. An empty allow list means
// the public OpenRouter hosts.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	baseURL = normalizeBaseURL(baseURL)
	reject := func(reason string, args ...any) error {
		return fmt.Errorf("invalid OPENROUTER_BASE_URL %q: "+reason, append([]any{baseURL}, args...)...)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid OPENROUTER_BASE_URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case !u.IsAbs() || u.Host == "":
		return reject("absolute URL with host is required")
	case u.User != nil:
		return reject("userinfo is not allowed")
	case u.RawQuery != "" || u.Fragment != "":
		return reject("query and fragment are not allowed")
	case host == "":
		return reject("host is required")
	case !strings.EqualFold(u.Scheme, "https"):
		return reject("https is required")
	case !lo.Contains(allowedHostList(allowedHosts), host):
		return reject("host %q is not in OPENROUTER_ALLOWED_HOSTS", host)
	}
	return nil
}

// allowedHostList reduces entries like "https://Proxy.internal:8443/" to bare
// lowercase host names.
func allowedHostList(allowedHosts []string) []string {
	hosts := lo.Uniq(lo.FilterMap(allowedHosts, func(h string, _ int) (string, bool) {
		v := strings.ToLower(strings.TrimSpace(h))
		v = strings.TrimPrefix(v, "http://")
		v = strings.TrimPrefix(v, "https://")
		v = strings.Trim(v, "/")
		if i := strings.IndexByte(v, ':'); i >= 0 {
			v = v[:i]
		}
		return v, v != ""
	}))
	if len(hosts) == 0 {
		return defaultAllowedHosts
	}
	return hosts
}
