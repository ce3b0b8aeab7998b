package runner

// Outcome is one recorded step result.
type Outcome struct {
	Name string
	OK   bool
}

// Report accumulates step outcomes in the order they were recorded.
// Skipped steps contribute no entry.
type Report struct {
	entries []Outcome
}

func (r *Report) push(name string, ok bool) {
	r.entries = append(r.entries, Outcome{Name: name, OK: ok})
}

// Entries returns the recorded outcomes in insertion order.
func (r *Report) Entries() []Outcome {
	return r.entries
}

// Failed reports whether any recorded outcome is a failure.
func (r *Report) Failed() bool {
	for _, e := range r.entries {
		if !e.OK {
			return true
		}
	}
	return false
}
