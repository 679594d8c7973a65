package batch

// Stats tracks aggregate counters and byte totals across a batch run.
// Total minus the three outcome counters is the number of jobs never
// dispatched (an interrupted run).
type Stats struct {
	Total            int
	Done             int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// ByteDelta returns output minus input bytes for completed jobs. Positive
// means the outputs are larger (usual for uncompressed DNG and EXR).
func (s *Stats) ByteDelta() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}
