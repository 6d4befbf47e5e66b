package port

import (
	"fmt"

	"portlist/internal/process"
)

// ListeningPort is one listening socket as reported by lsof. Fields
// hold the column text verbatim: Kind is the lsof TYPE column (IPv4 or
// IPv6), Transport its NODE column (TCP or UDP) and Address its NAME
// column with the state marker removed, normally host:port.
type ListeningPort struct {
	Command   string
	PID       string
	User      string
	Kind      string
	Transport string
	Address   string

	// Process carries the matching ps row once enriched, nil otherwise.
	Process *process.ProcessInfo
}

// String returns a human-readable representation of the record.
func (p ListeningPort) String() string {
	return fmt.Sprintf("%s/%s (PID %s, %s)", p.Address, p.Transport, p.PID, p.Command)
}

// EnrichWithProcessInfo attaches the first process whose PID matches
// this record's PID. A copy is stored so the record does not alias the
// caller's slice. No match leaves Process nil.
func (p *ListeningPort) EnrichWithProcessInfo(processes []process.ProcessInfo) {
	for _, info := range processes {
		if info.PID == p.PID {
			p.Process = &info
			return
		}
	}
}

// PIDs returns the unique PID values of ports in first-seen order.
func PIDs(ports []ListeningPort) []string {
	seen := make(map[string]struct{}, len(ports))
	var pids []string
	for _, p := range ports {
		if _, ok := seen[p.PID]; ok {
			continue
		}
		seen[p.PID] = struct{}{}
		pids = append(pids, p.PID)
	}
	return pids
}
