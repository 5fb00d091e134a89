package fsbuilder

// Diff carries the before/after content of a change, populated only
// when diff mode is requested and content actually changes.
type Diff struct {
	Before       string `json:"before" yaml:"before"`
	After        string `json:"after" yaml:"after"`
	BeforeHeader string `json:"before_header" yaml:"before_header"`
	AfterHeader  string `json:"after_header" yaml:"after_header"`
}

// Result is the outcome of a single invocation. Changed=false implies
// no filesystem mutation occurred during the call. The three outcomes
// are distinguished as: success (nil error from Reconcile), skip
// (Skipped=true with SkipReason), and failure (non-nil error, with the
// Result still echoing dest and state).
type Result struct {
	Changed    bool   `json:"changed" yaml:"changed"`
	Dest       string `json:"dest" yaml:"dest"`
	State      string `json:"state" yaml:"state"`
	Msg        string `json:"msg" yaml:"msg"`
	Diff       *Diff  `json:"diff,omitempty" yaml:"diff,omitempty"`
	BackupFile string `json:"backup_file,omitempty" yaml:"backup_file,omitempty"`
	Skipped    bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`

	// Removed counts the paths removed by a glob-based state=absent.
	Removed int `json:"removed,omitempty" yaml:"removed,omitempty"`
}
