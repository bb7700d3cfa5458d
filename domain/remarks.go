package domain

import "strings"

const (
	legacyRemarkSeparator = ";;;"
	maxRemarkPoints       = 20
	maxRemarkPointLength  = 500
)

// CleanRemarkPoints trims each point and drops empty ones, keeping order.
func CleanRemarkPoints(points []string) ([]string, error) {
	out := make([]string, 0, len(points))
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) > maxRemarkPointLength {
			return nil, Validationf("remark point longer than %d characters", maxRemarkPointLength)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, Validationf("remark needs at least one point")
	}
	if len(out) > maxRemarkPoints {
		return nil, Validationf("remark has %d points, at most %d allowed", len(out), maxRemarkPoints)
	}
	return out, nil
}

// DecodeLegacyRemark splits a remark stored in the old ";;;" joined form.
func DecodeLegacyRemark(s string) []string {
	parts := strings.Split(s, legacyRemarkSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
