package corpus

import "fmt"

const maxSamples = 5

// Report summarizes one corpus load.
type Report struct {
	Name     string
	Loaded   int
	Rejected int
	// Samples holds up to five rejected entries with the reason.
	Samples []string
}

func (r *Report) reject(entry, reason string) {
	r.Rejected++
	if len(r.Samples) < maxSamples {
		r.Samples = append(r.Samples, fmt.Sprintf("%s: %s", entry, reason))
	}
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %d loaded, %d rejected", r.Name, r.Loaded, r.Rejected)
}
