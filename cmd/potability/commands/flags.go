package commands

import (
	"github.com/spf13/pflag"
)

// bind ties config keys to flags; an unset flag leaves the key to the lower
// layers.
func bind(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}
}
