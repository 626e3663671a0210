package inquire

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilePathCompleter completes filesystem paths: case-insensitive
// prefix match against directory entries, with a leading "~" expanded
// to the user's home directory (§4.10).
type FilePathCompleter struct {
	Home string
}

func (c FilePathCompleter) expand(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(c.Home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func (c FilePathCompleter) Candidates(prefix string) []string {
	expanded := c.expand(prefix)
	dir, base := filepath.Split(expanded)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	lowerBase := strings.ToLower(base)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name()), lowerBase) {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				full += string(filepath.Separator)
			}
			out = append(out, full)
		}
	}
	sort.Strings(out)
	return out
}

func (c FilePathCompleter) RenderHint(prefix string) string {
	n := len(c.Candidates(prefix))
	if n == 0 {
		return "no match"
	}
	return ""
}

// BufferNameCompleter completes against the names of currently open
// buffers (§4.10).
type BufferNameCompleter struct {
	Names func() []string
}

func (c BufferNameCompleter) Candidates(prefix string) []string {
	var out []string
	for _, n := range c.Names() {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func (c BufferNameCompleter) RenderHint(prefix string) string { return "" }

// YesNoCompleter restricts the answer to "yes" or "no" (§4.10).
type YesNoCompleter struct{}

func (YesNoCompleter) Candidates(prefix string) []string {
	var out []string
	for _, s := range []string{"yes", "no"} {
		if strings.HasPrefix(s, strings.ToLower(prefix)) {
			out = append(out, s)
		}
	}
	return out
}

func (YesNoCompleter) RenderHint(prefix string) string { return "[yes/no]" }
