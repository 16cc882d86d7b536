package config

import (
	"sort"
	"strings"
)

// deprecated maps retired flags to the reason they are gone.
var deprecated = map[string]string{
	"--accessor":      "support discontinued",
	"--diagram":       "support discontinued",
	"--help-output":   "support discontinued",
	"--image-format":  "was an option for --diagram",
	"--inline-source": "source code is now always inlined",
	"--merge":         "class information is always merged",
	"--one-file":      "support discontinued",
	"--op-name":       "support discontinued",
	"--opname":        "support discontinued",
	"--promiscuous":   "files always only document their content",
	"--ri-system":     "installers use other techniques",
}

// Deprecation is a retired flag found on the command line.
type Deprecation struct {
	Flag   string
	Reason string
}

// PrependEnv inserts the words of the DOCKETOPT value before args.
// Command-line flags come later and therefore win.
func PrependEnv(args []string, env string) []string {
	words := strings.Fields(env)
	if len(words) == 0 {
		return args
	}
	out := make([]string, 0, len(words)+len(args))
	out = append(out, words...)
	return append(out, args...)
}

// StripDeprecated removes retired flags (with any "=value") from args.
// Arguments after "--" are left alone.
func StripDeprecated(args []string) ([]string, []Deprecation) {
	kept := make([]string, 0, len(args))
	var found []Deprecation
	for i, arg := range args {
		if arg == "--" {
			kept = append(kept, args[i:]...)
			break
		}
		name, _, _ := strings.Cut(arg, "=")
		if reason, ok := deprecated[name]; ok {
			found = append(found, Deprecation{Flag: name, Reason: reason})
			continue
		}
		kept = append(kept, arg)
	}
	return kept, found
}

// DeprecatedFlags lists retired flags in order.
func DeprecatedFlags() []Deprecation {
	out := make([]Deprecation, 0, len(deprecated))
	for flag, reason := range deprecated {
		out = append(out, Deprecation{Flag: flag, Reason: reason})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Flag < out[j].Flag })
	return out
}
