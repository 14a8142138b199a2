package catalog

import (
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change summarizes how a record differs from an earlier snapshot.
type Change struct {
	Added   int  // Lines present now but not in the snapshot
	Removed int  // Lines in the snapshot but gone now
	Missing bool // Record file no longer exists
}

// Changed reports whether anything differs.
func (c Change) Changed() bool {
	return c.Missing || c.Added > 0 || c.Removed > 0
}

// Snapshot holds a record's bytes at the moment it was selected.
type Snapshot struct {
	Path string
	Data []byte
}

// Capture reads the record at path.
func Capture(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{Path: path}, err
	}
	return Snapshot{Path: path, Data: data}, nil
}

// Compare diffs the snapshot against the file currently on disk.
func (s Snapshot) Compare() Change {
	current, err := os.ReadFile(s.Path)
	if err != nil {
		return Change{Removed: countLines(string(s.Data)), Missing: true}
	}
	return Diff(s.Data, current)
}

// Diff counts added and removed lines between two versions of a record.
func Diff(before, after []byte) Change {
	oldText, newText := string(before), string(after)
	if oldText == newText {
		return Change{}
	}

	// Line mode keeps counts aligned with what an editor shows
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var c Change
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			c.Added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			c.Removed += countLines(d.Text)
		}
	}
	return c
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
