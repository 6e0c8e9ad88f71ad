package api

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RootDomain reduces a captured URL to its registrable domain.
// Examples:
//   - "https://playground.bfl.ai/" -> "bfl.ai"
//   - "news.bbc.co.uk" -> "bbc.co.uk"
//   - "http://127.0.0.1:8080/x" -> "127.0.0.1"
func RootDomain(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	if strings.Contains(input, "://") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		input = parsed.Hostname()
	} else if i := strings.IndexAny(input, "/:?#"); i >= 0 {
		input = input[:i]
	}

	input = strings.ToLower(strings.TrimSuffix(input, "."))
	if input == "" {
		return "", fmt.Errorf("no host in input")
	}

	// IPs and single-label hosts have no public suffix
	if net.ParseIP(input) != nil || !strings.Contains(input, ".") {
		return input, nil
	}

	root, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return "", fmt.Errorf("failed to extract root domain: %w", err)
	}
	return root, nil
}
