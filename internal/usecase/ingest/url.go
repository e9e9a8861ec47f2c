package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultAllowedHost is the only host CSV documents are fetched from by default.
const DefaultAllowedHost = "upload.dify.ai"

// validateURL accepts absolute http(s) URLs whose host is in allowed.
// An empty allow-list accepts any host.
func validateURL(raw string, allowed []string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("missing host")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, h := range allowed {
		if strings.EqualFold(h, host) {
			return nil
		}
	}
	return fmt.Errorf("host %q is not allowed", host)
}
