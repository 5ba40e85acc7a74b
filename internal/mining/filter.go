package mining

import "strings"

// crawlDirs are the subdirectories worth descending into when looking for
// application code.
var crawlDirs = map[string]bool{
	"src":  true,
	"lib":  true,
	"core": true,
	"app":  true,
}

// FileFilter decides which source files qualify as dataset samples.
type FileFilter struct {
	MinBytes int // exclusive lower bound on file size
	MaxBytes int // exclusive upper bound on file size
	MinLines int // inclusive
	MaxLines int // inclusive
}

// DefaultFileFilter matches short, non-trivial Python files.
func DefaultFileFilter() FileFilter {
	return FileFilter{
		MinBytes: 1000,
		MaxBytes: 20000,
		MinLines: 50,
		MaxLines: 120,
	}
}

// AcceptPath reports whether a file path is a candidate: a .py file that is
// neither a test nor a package __init__.
func (f FileFilter) AcceptPath(path string) bool {
	if !strings.HasSuffix(path, ".py") {
		return false
	}
	if strings.Contains(path, "test") || strings.Contains(path, "__init__") {
		return false
	}
	return true
}

// AcceptSize reports whether the file size falls inside the byte window.
func (f FileFilter) AcceptSize(size int) bool {
	return size > f.MinBytes && size < f.MaxBytes
}

// AcceptCode reports whether the decoded source has an acceptable line count.
func (f FileFilter) AcceptCode(code string) bool {
	n := countLines(code)
	return n >= f.MinLines && n <= f.MaxLines
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
