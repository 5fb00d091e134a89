package fsbuilder

// Params is the fully-resolved parameter set for a single invocation:
// one destination path, one desired state, plus per-state options. The
// engine treats it as immutable for the duration of the call.
//
// Optional string parameters where "set to empty" differs from "unset"
// (content, line, block, and the insert/match hints) are pointers, so
// that an explicitly empty value is still honored.
type Params struct {
	Dest  string `yaml:"dest" toml:"dest"`
	State State  `yaml:"state" toml:"state"`

	// Src is the source file for copy, or the link target for
	// link/hard. Mutually exclusive with Content.
	Src     string  `yaml:"src,omitempty" toml:"src,omitempty"`
	Content *string `yaml:"content,omitempty" toml:"content,omitempty"`

	Force       bool   `yaml:"force,omitempty" toml:"force,omitempty"`
	ForceBackup bool   `yaml:"force_backup,omitempty" toml:"force_backup,omitempty"`
	Backup      bool   `yaml:"backup,omitempty" toml:"backup,omitempty"`
	Makedirs    bool   `yaml:"makedirs,omitempty" toml:"makedirs,omitempty"`
	Recurse     bool   `yaml:"recurse,omitempty" toml:"recurse,omitempty"`
	Follow      bool   `yaml:"follow" toml:"follow"`
	ValidateCmd string `yaml:"validate,omitempty" toml:"validate,omitempty"`

	AccessTime       string `yaml:"access_time,omitempty" toml:"access_time,omitempty"`
	ModificationTime string `yaml:"modification_time,omitempty" toml:"modification_time,omitempty"`

	Creates string `yaml:"creates,omitempty" toml:"creates,omitempty"`
	Removes string `yaml:"removes,omitempty" toml:"removes,omitempty"`

	// UnsafeAllowSystemPaths disables the safety gate protecting the
	// filesystem root and core system directories for state=absent.
	UnsafeAllowSystemPaths bool `yaml:"unsafe_allow_system_paths,omitempty" toml:"unsafe_allow_system_paths,omitempty"`

	Owner string `yaml:"owner,omitempty" toml:"owner,omitempty"`
	Group string `yaml:"group,omitempty" toml:"group,omitempty"`
	Mode  string `yaml:"mode,omitempty" toml:"mode,omitempty"`

	// lineinfile
	Line         *string `yaml:"line,omitempty" toml:"line,omitempty"`
	Regexp       *string `yaml:"regexp,omitempty" toml:"regexp,omitempty"`
	InsertAfter  *string `yaml:"insertafter,omitempty" toml:"insertafter,omitempty"`
	InsertBefore *string `yaml:"insertbefore,omitempty" toml:"insertbefore,omitempty"`
	LineState    string  `yaml:"line_state,omitempty" toml:"line_state,omitempty"`

	// blockinfile
	Block       *string `yaml:"block,omitempty" toml:"block,omitempty"`
	Marker      string  `yaml:"marker,omitempty" toml:"marker,omitempty"`
	MarkerBegin string  `yaml:"marker_begin,omitempty" toml:"marker_begin,omitempty"`
	MarkerEnd   string  `yaml:"marker_end,omitempty" toml:"marker_end,omitempty"`
	BlockState  string  `yaml:"block_state,omitempty" toml:"block_state,omitempty"`

	// CheckMode computes and reports the change decision without
	// mutating the filesystem. DiffMode requests before/after content
	// in the result. Both arrive from the caller, never from manifests.
	CheckMode bool `yaml:"-" toml:"-"`
	DiffMode  bool `yaml:"-" toml:"-"`
}

// DefaultParams returns a Params seeded with the engine defaults:
// state=template, follow=true, present line/block states and the
// standard managed-block marker.
func DefaultParams() Params {
	return Params{
		State:       StateTemplate,
		Follow:      true,
		LineState:   PresentState,
		BlockState:  PresentState,
		Marker:      DefaultMarker,
		MarkerBegin: DefaultMarkerBegin,
		MarkerEnd:   DefaultMarkerEnd,
	}
}

// Validate checks cross-field constraints that must hold before any
// handler runs: required fields, a known state, and the mutually
// exclusive parameter pairs. Per-state requirements (line for
// lineinfile present, block for blockinfile present, and so on) are
// enforced by the handlers themselves.
func (p *Params) Validate() error {
	if p.Dest == "" {
		return &ValidationError{Reason: "'dest' is required"}
	}
	if !p.State.Valid() {
		return &ValidationError{Dest: p.Dest, Reason: "unknown state: " + string(p.State)}
	}
	if p.Content != nil && p.Src != "" {
		return &ValidationError{Dest: p.Dest, Reason: "'content' and 'src' are mutually exclusive"}
	}
	if p.InsertAfter != nil && p.InsertBefore != nil {
		return &ValidationError{Dest: p.Dest, Reason: "'insertafter' and 'insertbefore' are mutually exclusive"}
	}
	if (p.State == StateLink || p.State == StateHard) && p.Src == "" {
		return &ValidationError{Dest: p.Dest, Reason: "'src' is required for state=" + string(p.State)}
	}
	if p.LineState != "" && p.LineState != PresentState && p.LineState != AbsentState {
		return &ValidationError{Dest: p.Dest, Reason: "invalid line_state: " + p.LineState}
	}
	if p.BlockState != "" && p.BlockState != PresentState && p.BlockState != AbsentState {
		return &ValidationError{Dest: p.Dest, Reason: "invalid block_state: " + p.BlockState}
	}
	return nil
}

// attrSpec extracts the ownership and permission request for the
// attribute applier.
func (p *Params) attrSpec() AttrSpec {
	return AttrSpec{Owner: p.Owner, Group: p.Group, Mode: p.Mode, Follow: p.Follow}
}
