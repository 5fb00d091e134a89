package fsbuilder

import (
	"context"
	"regexp"
	"slices"
)

// reconcileLineInFile handles state=lineinfile: ensure a single line is
// present in (or absent from) a text file, matched by regexp or by the
// line itself.
func (r *Reconciler) reconcileLineInFile(ctx context.Context, p Params, res *Result) error {
	dest := p.Dest
	lineState := p.LineState
	if lineState == "" {
		lineState = PresentState
	}

	if lineState == PresentState && p.Line == nil {
		return &ValidationError{Dest: dest, Reason: "'line' is required when line_state=present"}
	}
	if lineState == AbsentState && p.Line == nil && p.Regexp == nil {
		return &ValidationError{Dest: dest, Reason: "'line' or 'regexp' is required when line_state=absent"}
	}

	if err := r.makedirs(p); err != nil {
		return err
	}

	var lines []string
	if r.isFile(dest) {
		data, err := r.fs.ReadFile(dest)
		if err != nil {
			return err
		}
		lines = splitLinesKeep(data)
	} else if lineState == AbsentState {
		res.Msg = "file does not exist, nothing to remove"
		return nil
	}

	var updated []string
	var err error
	if lineState == PresentState {
		updated, err = linePresent(slices.Clone(lines), *p.Line, p.Regexp, p.InsertAfter, p.InsertBefore)
	} else {
		updated, err = lineAbsent(lines, p.Line, p.Regexp)
	}
	if err != nil {
		return err
	}

	if linesEqual(lines, updated) {
		changed, err := r.applyAttributes(dest, p, false)
		if err != nil {
			return err
		}
		res.Changed = changed
		res.Msg = "line already correct"
		return nil
	}

	res.Changed = true

	if p.DiffMode {
		res.Diff = &Diff{
			Before:       joinLines(lines),
			After:        joinLines(updated),
			BeforeHeader: dest,
			AfterHeader:  dest,
		}
	}

	if p.CheckMode {
		res.Msg = "line would be updated"
		return nil
	}

	if err := r.commitContent(ctx, dest, []byte(joinLines(updated)), p, res); err != nil {
		return err
	}
	changed, err := r.applyAttributes(dest, p, true)
	if err != nil {
		return err
	}
	res.Changed = changed
	res.Msg = "line updated"
	return nil
}

// linePresent returns the line list with line ensured present. With a
// regexp, the last matching line is replaced in place (or left alone if
// already identical); without one, the line itself is the match key.
// When no match exists the line is inserted per the position hints,
// using the last matching line as the tie-break for regex hints.
func linePresent(lines []string, line string, rx, insertAfter, insertBefore *string) ([]string, error) {
	lineNL := ensureNL(line)

	if rx != nil {
		pattern, err := regexp.Compile(*rx)
		if err != nil {
			return nil, &ValidationError{Reason: "invalid regexp: " + err.Error()}
		}
		last := -1
		for i, existing := range lines {
			if pattern.MatchString(existing) {
				last = i
			}
		}
		if last >= 0 {
			if stripEOL(lines[last]) != stripEOL(line) {
				lines[last] = lineNL
			}
			return lines, nil
		}
		// No match; fall through to insertion.
	} else {
		for _, existing := range lines {
			if stripEOL(existing) == stripEOL(line) {
				return lines, nil
			}
		}
	}

	switch {
	case insertBefore != nil:
		if *insertBefore == PositionBOF {
			return slices.Insert(lines, 0, lineNL), nil
		}
		idx, err := lastMatchIndex(lines, *insertBefore)
		if err != nil {
			return nil, err
		}
		if idx >= 0 {
			return slices.Insert(lines, idx, lineNL), nil
		}
		return append(lines, lineNL), nil
	case insertAfter != nil && *insertAfter != PositionEOF:
		idx, err := lastMatchIndex(lines, *insertAfter)
		if err != nil {
			return nil, err
		}
		if idx >= 0 {
			return slices.Insert(lines, idx+1, lineNL), nil
		}
		return append(lines, lineNL), nil
	default:
		// Append, first normalizing a missing newline on the prior
		// last line.
		if len(lines) > 0 {
			lines[len(lines)-1] = ensureNL(lines[len(lines)-1])
		}
		return append(lines, lineNL), nil
	}
}

// lineAbsent returns the line list with every matching line removed:
// lines matching regexp if given, else lines exactly equal to line.
func lineAbsent(lines []string, line, rx *string) ([]string, error) {
	if rx != nil {
		pattern, err := regexp.Compile(*rx)
		if err != nil {
			return nil, &ValidationError{Reason: "invalid regexp: " + err.Error()}
		}
		var kept []string
		for _, existing := range lines {
			if !pattern.MatchString(existing) {
				kept = append(kept, existing)
			}
		}
		return kept, nil
	}
	if line != nil {
		var kept []string
		for _, existing := range lines {
			if stripEOL(existing) != stripEOL(*line) {
				kept = append(kept, existing)
			}
		}
		return kept, nil
	}
	return lines, nil
}

// lastMatchIndex returns the index of the last line matching the
// pattern, or -1.
func lastMatchIndex(lines []string, rx string) (int, error) {
	pattern, err := regexp.Compile(rx)
	if err != nil {
		return -1, &ValidationError{Reason: "invalid regexp: " + err.Error()}
	}
	last := -1
	for i, existing := range lines {
		if pattern.MatchString(existing) {
			last = i
		}
	}
	return last, nil
}
