package install

// ActionResult records the outcome of a single attempted action.
type ActionResult struct {
	// Description is the action as announced to the user, e.g.
	// "Copy gitconfig to ~/.gitconfig".
	Description string

	// Err is nil for a successful or dry-run action.
	Err error
}

// Report collects every attempted action of a run. Soft failures never
// abort the run; the CLI reduces the report to an exit code.
type Report struct {
	Results []ActionResult
}

func (r *Report) add(description string, err error) {
	r.Results = append(r.Results, ActionResult{Description: description, Err: err})
}

// HasErrors reports whether any action failed.
func (r *Report) HasErrors() bool {
	for _, result := range r.Results {
		if result.Err != nil {
			return true
		}
	}
	return false
}

// Failed returns the results of the actions that failed, in order.
func (r *Report) Failed() []ActionResult {
	var failed []ActionResult
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
