package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a fixed set of values. Input is
// normalised the way the domain parsers do it, so "Fired Up" is fired_up.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(def string, allowed ...string) *enumFlag {
	return &enumFlag{value: def, allowed: allowed}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(s string) error {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	for _, a := range f.allowed {
		if v == a {
			f.value = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
}

func (f *enumFlag) Type() string {
	return strings.Join(f.allowed, "|")
}
