package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrUnavailable reports that the record directory cannot be created or listed.
// It is the one catalog failure callers surface to the operator.
var ErrUnavailable = errors.New("catalog directory unavailable")

// RecordError describes a record that could not be read or parsed.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("catalog record %s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Record is the on-disk descriptor. Absent keys stay nil so callers can
// tell "missing" from "empty".
type Record struct {
	Name        *string `json:"name,omitempty" yaml:"name,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Logo        *string `json:"logo,omitempty" yaml:"logo,omitempty"`
	Package     *string `json:"package,omitempty" yaml:"package,omitempty"`
	PackageID   *string `json:"packageId,omitempty" yaml:"packageId,omitempty"`
}

// recordPatterns lists the globs that qualify a file as a record, one pass each
var recordPatterns = []string{"*.json", "*.JSON", "*.yaml", "*.yml"}

// Store reads and writes catalog records in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the record directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the record directory if it does not exist.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.dir, err)
	}
	return nil
}

// List returns the absolute paths of all record files. Each file appears at
// most once even when several patterns match it.
func (s *Store) List() ([]string, error) {
	if _, err := os.ReadDir(s.dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.dir, err)
	}

	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, s.dir, err)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range recordPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, p := range matches {
			p = filepath.Clean(p)
			if seen[p] {
				continue
			}
			info, err := os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Read parses the record at path. JSON files are decoded strictly as JSON,
// YAML files with yaml.v3.
func (s *Store) Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, &RecordError{Path: path, Err: err}
	}
	rec, err := parseRecord(path, data)
	if err != nil {
		return Record{}, &RecordError{Path: path, Err: err}
	}
	return rec, nil
}

func parseRecord(path string, data []byte) (Record, error) {
	var rec Record
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Record{}, errors.New("empty document")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return Record{}, err
		}
	default:
		if trimmed[0] != '{' {
			return Record{}, errors.New("record must be a JSON object")
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&rec); err != nil {
			return Record{}, err
		}
		if dec.More() {
			return Record{}, errors.New("trailing data after record")
		}
	}
	return rec, nil
}

// Template returns the starter record written by Create.
func Template() Record {
	return Record{
		Name:        strPtr("New App"),
		Description: strPtr("Description here"),
		Logo:        strPtr("logos/default.png"),
		Package:     strPtr("package-name"),
	}
}

// Create writes a starter record and returns its path. The file name carries
// the creation time in seconds, plus a random suffix if that name is taken.
func (s *Store) Create() (string, error) {
	if err := s.Ensure(); err != nil {
		return "", err
	}

	base := "new_app_" + strconv.FormatInt(s.now().Unix(), 10)
	path := filepath.Join(s.dir, base+".json")
	if _, err := os.Stat(path); err == nil {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		path = filepath.Join(s.dir, base+"_"+suffix+".json")
	}

	data, err := json.MarshalIndent(Template(), "", "    ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write record: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func strPtr(s string) *string {
	return &s
}
