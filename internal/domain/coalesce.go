package domain

// CoalesceStr returns the first non-empty value. Display titles fall back to
// the parsed title and request constraints fall back to their defaults
// through it.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
