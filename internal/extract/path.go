package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// step is one segment of a parsed extraction path: either an object-key
// descent or an array-index descent (from trailing "[n]" syntax).
type step struct {
	isIndex bool
	key     string
	idx     int
	disp    string // how this step renders when rebuilding a partial path
}

// parsePath splits a dot-delimited path with optional "[i]" array indexing
// (e.g. "user.profile.settings.theme", "items[1]") into an ordered list of
// steps.
func parsePath(path string) ([]step, error) {
	var steps []step
	for _, part := range strings.Split(path, ".") {
		key, indices, err := splitBrackets(part)
		if err != nil {
			return nil, err
		}
		if key != "" {
			steps = append(steps, step{key: key, disp: key})
		}
		for _, idx := range indices {
			steps = append(steps, step{isIndex: true, idx: idx, disp: fmt.Sprintf("[%d]", idx)})
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("extract: empty path")
	}
	return steps, nil
}

// splitBrackets splits "items[1][2]" into key="items", indices=[1,2].
func splitBrackets(part string) (string, []int, error) {
	i := strings.IndexByte(part, '[')
	if i < 0 {
		return part, nil, nil
	}
	key := part[:i]
	rest := part[i:]

	var indices []int
	for len(rest) > 0 {
		if rest[0] != '[' {
			return "", nil, fmt.Errorf("extract: malformed path segment %q", part)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, fmt.Errorf("extract: unterminated index in %q", part)
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, fmt.Errorf("extract: non-integer index in %q: %w", part, err)
		}
		indices = append(indices, n)
		rest = rest[end+1:]
	}
	return key, indices, nil
}

// pathString rebuilds the dotted/bracketed display form of steps[:n].
func pathString(steps []step, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		s := steps[i]
		if s.isIndex {
			b.WriteString(s.disp)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.disp)
	}
	return b.String()
}
