package port

import "strings"

// KeepAllowedPorts returns the records whose port component is in
// allowed. An empty set keeps nothing; callers skip the call entirely
// when no filter is configured.
func KeepAllowedPorts(ports []ListeningPort, allowed map[string]struct{}) []ListeningPort {
	var kept []ListeningPort
	for _, p := range ports {
		if _, ok := allowed[PortOf(p.Address)]; ok {
			kept = append(kept, p)
		}
	}
	return kept
}

// PortOf extracts the port component of an address: everything after
// the last ':', or the whole address when it has none. IPv6 hosts
// contain colons themselves, which is why the last one is the split
// point.
func PortOf(address string) string {
	if i := strings.LastIndex(address, ":"); i != -1 {
		return address[i+1:]
	}
	return address
}

// ExcludeCommands drops records whose command equals any of names,
// compared case-insensitively.
func ExcludeCommands(ports []ListeningPort, names []string) []ListeningPort {
	if len(names) == 0 {
		return ports
	}

	var kept []ListeningPort
	for _, p := range ports {
		if !matchesAny(p.Command, names) {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchesAny(command string, names []string) bool {
	for _, name := range names {
		if strings.EqualFold(command, name) {
			return true
		}
	}
	return false
}
