package tracker

import "time"

// OutageRecord describes one contiguous run of failed probes.
type OutageRecord struct {
	ID           string
	Start        time.Time
	End          *time.Time // nil while the outage is ongoing
	FailureCount int
}

// Ongoing reports whether the outage has not ended yet.
func (r OutageRecord) Ongoing() bool {
	return r.End == nil
}

// Duration returns End-Start, or now-Start while the outage is ongoing.
func (r OutageRecord) Duration(now time.Time) time.Duration {
	if r.End == nil {
		return now.Sub(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r OutageRecord) clone() OutageRecord {
	c := r
	if r.End != nil {
		end := *r.End
		c.End = &end
	}
	return c
}

// EndsBefore orders records by End, with ongoing records after every ended one.
func EndsBefore(a, b OutageRecord) bool {
	switch {
	case a.End == nil:
		return false
	case b.End == nil:
		return true
	default:
		return a.End.Before(*b.End)
	}
}
