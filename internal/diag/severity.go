package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning covers the non-fatal findings: unknown directive names
	// and the deprecated '!' directive syntax.
	SevWarning
	// SevError aborts transformation of the current file; no partial Lua
	// output is emitted for it.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Fatal reports whether a diagnostic of this severity fails its file.
func (s Severity) Fatal() bool {
	return s >= SevError
}
