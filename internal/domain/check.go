package domain

import "time"

// FailedCount is the count reported when a check could not be completed.
const FailedCount int64 = -1

// CheckResult is the outcome of counting recent news in one database.
type CheckResult struct {
	Target   Target
	Count    int64
	Err      error
	Duration time.Duration
}

// Stale reports whether the check found exactly zero recent rows.
// Failed checks carry FailedCount and are not stale.
func (r CheckResult) Stale() bool {
	return r.Count == 0
}

func (r CheckResult) Failed() bool {
	return r.Err != nil
}

// CycleStats holds statistics about a single check cycle.
type CycleStats struct {
	Checked      int
	Stale        int
	Failed       int
	Notified     int
	NotifyErrors int
	Duration     time.Duration
}

// Clean reports whether no database was found stale.
func (s *CycleStats) Clean() bool {
	return s.Stale == 0
}
