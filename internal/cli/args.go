package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// maxPort is the highest valid TCP/UDP port number.
const maxPort = 65535

// usageError is a command line mistake. Execute reports it with the
// usage exit code instead of the general failure code.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// rewriteVerbosityTokens maps the short spellings -v, -vv and -vvv to
// their long flags before parsing. pflag would otherwise read -vv as
// the single-letter v flag given twice. Tokens after a bare -- are
// positional and left alone.
func rewriteVerbosityTokens(args []string) []string {
	out := make([]string, len(args))
	rewriting := true
	for i, arg := range args {
		if rewriting && arg == "--" {
			rewriting = false
		}
		if !rewriting {
			out[i] = arg
			continue
		}
		switch arg {
		case "-v":
			out[i] = "--version"
		case "-vv":
			out[i] = "--verbose"
		case "-vvv":
			out[i] = "--very-verbose"
		default:
			out[i] = arg
		}
	}
	return out
}

// allowedPorts builds the allow-set from positional arguments. Each
// argument is a single port number or an inclusive range "A-B", in
// either order. Entries are canonical decimal strings so they compare
// equal to the port component of an lsof address. No arguments means
// no filtering, reported as a nil map.
func allowedPorts(args []string) (map[string]struct{}, error) {
	if len(args) == 0 {
		return nil, nil
	}

	allowed := make(map[string]struct{}, len(args))
	for _, arg := range args {
		lo, hi, ok := portRange(arg)
		if !ok {
			return nil, &usageError{fmt.Sprintf("invalid argument %q: expected a port number (0-%d) or a range like 3000-4000", arg, maxPort)}
		}
		for p := lo; p <= hi; p++ {
			allowed[strconv.Itoa(p)] = struct{}{}
		}
	}
	return allowed, nil
}

// portRange parses "N" or "A-B".
func portRange(arg string) (int, int, bool) {
	if a, b, found := strings.Cut(arg, "-"); found {
		lo, okA := portNumber(a)
		hi, okB := portNumber(b)
		if !okA || !okB {
			return 0, 0, false
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}

	p, ok := portNumber(arg)
	return p, p, ok
}

func portNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > maxPort {
		return 0, false
	}
	return n, true
}
