// Package scan classifies decoded QR payloads. A payload is either a menu
// deep-link (restaurant code plus optional table number) or a raw loyalty
// code handed to the claim flow.
package scan

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	// MenuLink navigates to a restaurant menu, optionally at a table.
	MenuLink Kind = iota
	// RawCode is an opaque loyalty code redeemed via a claim.
	RawCode
)

// Result is the classified payload. For MenuLink, QRCode holds the
// restaurant code and Table the table number (0 when absent). For RawCode,
// Value holds the trimmed payload unchanged.
type Result struct {
	Kind   Kind
	QRCode string
	Table  int
	Value  string
}

var (
	uuidRe     = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	bareUUIDRe = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// Parse classifies a decoded QR string. It is pure and never fails: a
// physical QR code cannot be fixed by the user, so every malformed input
// degrades to a best-effort result the caller can still act on.
func Parse(raw string) Result {
	trimmed := strings.TrimSpace(raw)

	if bareUUIDRe.MatchString(trimmed) {
		return Result{Kind: MenuLink, QRCode: trimmed}
	}

	if !strings.Contains(strings.ToLower(trimmed), "/menu/") {
		return Result{Kind: RawCode, Value: trimmed}
	}

	return parseMenuLink(trimmed)
}

func parseMenuLink(trimmed string) Result {
	res := Result{Kind: MenuLink}

	// Synthesize a scheme against a dummy authority so relative paths,
	// bare hosts and full URLs all parse the same way.
	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		if strings.HasPrefix(candidate, "/") {
			candidate = "https://scan.invalid" + candidate
		} else {
			candidate = "https://" + candidate
		}
	}

	u, err := url.Parse(candidate)
	if err != nil {
		res.QRCode = fallbackCode(trimmed)
		return res
	}

	res.QRCode = codeFromPath(u.Path)
	if res.QRCode == "" {
		res.QRCode = fallbackCode(trimmed)
	}

	if t, err := strconv.Atoi(u.Query().Get("table")); err == nil && t > 0 {
		res.Table = t
	}
	return res
}

// codeFromPath extracts the UUID from a /menu/<uuid> segment pair.
func codeFromPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.EqualFold(seg, "menu") && i+1 < len(segments) {
			if bareUUIDRe.MatchString(segments[i+1]) {
				return segments[i+1]
			}
		}
	}
	return ""
}

// fallbackCode scans the whole payload for the first UUID-shaped substring
// and falls back to the trimmed text verbatim.
func fallbackCode(trimmed string) string {
	if m := uuidRe.FindString(trimmed); m != "" {
		return m
	}
	return trimmed
}
