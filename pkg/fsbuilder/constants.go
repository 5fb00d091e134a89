package fsbuilder

// State identifies the desired filesystem state for a destination path.
type State string

const (
	// StateTemplate is the controller-side alias for StateCopy: the
	// caller renders template content before invoking the engine, so
	// both states are handled identically here.
	StateTemplate State = "template"
	// StateCopy writes literal content or the bytes of a source file.
	StateCopy State = "copy"
	// StateDirectory ensures a directory exists.
	StateDirectory State = "directory"
	// StateExists ensures a file exists, creating it empty if missing.
	StateExists State = "exists"
	// StateTouch creates the file if missing and refreshes its times.
	StateTouch State = "touch"
	// StateAbsent removes the path, expanding globs in the basename.
	StateAbsent State = "absent"
	// StateLink ensures a symbolic link with the requested target.
	StateLink State = "link"
	// StateHard ensures a hard link to the source file.
	StateHard State = "hard"
	// StateLineInFile manages a single line in a text file.
	StateLineInFile State = "lineinfile"
	// StateBlockInFile manages a marker-delimited block in a text file.
	StateBlockInFile State = "blockinfile"
)

// ValidStates enumerates every state the engine accepts. The same set
// is consumed by boundary-facing layers (manifest validation, CLI) so
// the two stay in sync.
var ValidStates = []State{
	StateTemplate,
	StateCopy,
	StateDirectory,
	StateExists,
	StateTouch,
	StateAbsent,
	StateLink,
	StateHard,
	StateLineInFile,
	StateBlockInFile,
}

// NoValidateStates are the states that produce no file content, for
// which a configured validate command is ignored with a warning.
var NoValidateStates = []State{
	StateDirectory,
	StateAbsent,
	StateLink,
	StateHard,
	StateExists,
	StateTouch,
}

// Valid reports whether s is a member of ValidStates.
func (s State) Valid() bool {
	for _, v := range ValidStates {
		if s == v {
			return true
		}
	}
	return false
}

// ValidateIgnored reports whether a validate command has no effect for s.
func (s State) ValidateIgnored() bool {
	for _, v := range NoValidateStates {
		if s == v {
			return true
		}
	}
	return false
}

const (
	// PresentState requests that a line or block be present.
	PresentState = "present"
	// AbsentState requests that a line or block be removed.
	AbsentState = "absent"

	// PositionBOF is the insertbefore sentinel for beginning-of-file.
	PositionBOF = "BOF"
	// PositionEOF is the insertafter sentinel for end-of-file.
	PositionEOF = "EOF"
)

const (
	// DefaultMarker is the blockinfile marker template; {mark} is
	// substituted with the begin/end token.
	DefaultMarker = "# {mark} MANAGED BLOCK"
	// DefaultMarkerBegin is substituted for {mark} in the opening marker.
	DefaultMarkerBegin = "BEGIN"
	// DefaultMarkerEnd is substituted for {mark} in the closing marker.
	DefaultMarkerEnd = "END"
)

const (
	// DefaultFileMode is the permission mode for files the engine creates
	// when no explicit mode is requested.
	DefaultFileMode = 0o644
	// DefaultDirMode is the permission mode for directories the engine
	// creates when no explicit mode is requested.
	DefaultDirMode = 0o755
)
