// Package options defines the generic options interface shared by all
// configurable components.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join concatenates prefixes with "." and appends a trailing "." when the
// result is non-empty. It is used to build flag names like
// "redis.host" or "prefix.redis.host".
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions defines methods to implement a generic options component.
type IOptions interface {
	// Validate validates all the required options.
	// It may also complete options where defaults apply.
	Validate() []error

	// AddFlags adds flags related to this component to the flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
