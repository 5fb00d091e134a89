package fsbuilder

import (
	"context"
	"slices"
	"strings"
)

// reconcileBlockInFile handles state=blockinfile: a marker-delimited
// region owned and exclusively rewritten by this engine.
func (r *Reconciler) reconcileBlockInFile(ctx context.Context, p Params, res *Result) error {
	dest := p.Dest
	blockState := p.BlockState
	if blockState == "" {
		blockState = PresentState
	}

	if blockState == PresentState && p.Block == nil {
		return &ValidationError{Dest: dest, Reason: "'block' is required when block_state=present"}
	}

	if err := r.makedirs(p); err != nil {
		return err
	}

	marker := p.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	markerBegin := p.MarkerBegin
	if markerBegin == "" {
		markerBegin = DefaultMarkerBegin
	}
	markerEnd := p.MarkerEnd
	if markerEnd == "" {
		markerEnd = DefaultMarkerEnd
	}
	begin := strings.ReplaceAll(marker, "{mark}", markerBegin)
	end := strings.ReplaceAll(marker, "{mark}", markerEnd)

	var lines []string
	if r.isFile(dest) {
		data, err := r.fs.ReadFile(dest)
		if err != nil {
			return err
		}
		lines = splitLinesKeep(data)
	} else if blockState == AbsentState {
		res.Msg = "file does not exist, nothing to remove"
		return nil
	}

	var updated []string
	var err error
	if blockState == PresentState {
		updated, err = blockPresent(slices.Clone(lines), *p.Block, begin, end, p.InsertAfter, p.InsertBefore)
		if err != nil {
			return err
		}
	} else {
		updated = blockAbsent(slices.Clone(lines), begin, end)
	}

	if linesEqual(lines, updated) {
		changed, err := r.applyAttributes(dest, p, false)
		if err != nil {
			return err
		}
		res.Changed = changed
		res.Msg = "block already correct"
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
		res.Msg = "block would be updated"
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
	res.Msg = "block updated"
	return nil
}

// findMarkers locates the marker pair: the begin index tracks the
// latest begin line seen, and the end index is the first end line seen
// after a begin. Returns (-1, -1) when no complete pair exists.
func findMarkers(lines []string, begin, end string) (int, int) {
	beginIdx, endIdx := -1, -1
	for i, line := range lines {
		if stripEOL(line) == begin {
			beginIdx = i
		}
		if stripEOL(line) == end && beginIdx >= 0 {
			endIdx = i
			break
		}
	}
	if beginIdx >= 0 && endIdx >= 0 {
		return beginIdx, endIdx
	}
	return -1, -1
}

// blockPresent returns the line list with the managed block ensured
// present: an existing marker pair is replaced wholesale (markers
// inclusive); otherwise the block is inserted per the position hints,
// operating on whole block units.
func blockPresent(lines []string, block, begin, end string, insertAfter, insertBefore *string) ([]string, error) {
	if block != "" {
		block = ensureNL(block)
	}
	blockLines := make([]string, 0, 2)
	blockLines = append(blockLines, begin+"\n")
	blockLines = append(blockLines, splitLinesKeep([]byte(block))...)
	blockLines = append(blockLines, end+"\n")

	if beginIdx, endIdx := findMarkers(lines, begin, end); beginIdx >= 0 {
		// slices.Concat requires Go 1.22; build against 1.21.
		updated := make([]string, 0, beginIdx+len(blockLines)+len(lines)-(endIdx+1))
		updated = append(updated, lines[:beginIdx]...)
		updated = append(updated, blockLines...)
		updated = append(updated, lines[endIdx+1:]...)
		return updated, nil
	}

	appendBlock := func(lines []string) []string {
		if len(lines) > 0 {
			lines[len(lines)-1] = ensureNL(lines[len(lines)-1])
		}
		return append(lines, blockLines...)
	}

	switch {
	case insertBefore != nil:
		if *insertBefore == PositionBOF {
			return slices.Insert(lines, 0, blockLines...), nil
		}
		idx, err := lastMatchIndex(lines, *insertBefore)
		if err != nil {
			return nil, err
		}
		if idx >= 0 {
			return slices.Insert(lines, idx, blockLines...), nil
		}
		return appendBlock(lines), nil
	case insertAfter != nil && *insertAfter != PositionEOF:
		idx, err := lastMatchIndex(lines, *insertAfter)
		if err != nil {
			return nil, err
		}
		if idx >= 0 {
			return slices.Insert(lines, idx+1, blockLines...), nil
		}
		return appendBlock(lines), nil
	default:
		return appendBlock(lines), nil
	}
}

// blockAbsent returns the line list with the first marker-bracketed
// region deleted, markers inclusive. No pair means no change.
func blockAbsent(lines []string, begin, end string) []string {
	beginIdx, endIdx := findMarkers(lines, begin, end)
	if beginIdx < 0 {
		return lines
	}
	return slices.Delete(lines, beginIdx, endIdx+1)
}
