package diag

import "sync"

// Reporter is the minimal contract for receiving diagnostics.
type Reporter interface {
	Report(code Code, sev Severity, path, msg string, notes []Note)
}

// Warn reports a warning through r, ignoring a nil reporter.
func Warn(r Reporter, code Code, path, msg string, notes ...Note) {
	if r == nil {
		return
	}
	r.Report(code, SevWarning, path, msg, notes)
}

// Error reports an error through r, ignoring a nil reporter.
func Error(r Reporter, code Code, path, msg string, notes ...Note) {
	if r == nil {
		return
	}
	r.Report(code, SevError, path, msg, notes)
}

// BagReporter writes into a *Bag. It is safe for concurrent use.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, path, msg string, notes []Note) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Path: path, Notes: notes,
	})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, string, []Note) {}
