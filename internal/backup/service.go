package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pocket/internal/encoding"
)

const ext = ".json"

var (
	ErrNotJSON  = errors.New("backup must be a .json file")
	ErrTooLarge = errors.New("backup file is too large")
)

// Entry is a backup file found in the backup directory.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Service stores exported backups on disk and reads files to import.
type Service struct {
	dir     string
	maxSize int64
}

func NewService(dir string, maxSize int64) *Service {
	return &Service{dir: dir, maxSize: maxSize}
}

func (s *Service) Dir() string { return s.dir }

func (s *Service) MaxSize() int64 { return s.maxSize }

// Write stores blob under filename in the backup directory and returns its path.
// The file appears under its final name only once fully written.
func (s *Service) Write(blob []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	path := filepath.Join(s.dir, sanitize(filename))

	tmp, err := os.CreateTemp(s.dir, ".backup-*")
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming file: %w", err)
	}

	return path, nil
}

// Read loads a backup file for import, decoded to UTF-8.
func (s *Service) Read(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ext) {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	return s.Decode(f)
}

// Decode reads an uploaded backup, decoded to UTF-8.
func (s *Service) Decode(r io.Reader) ([]byte, error) {
	b, err := encoding.ReadAll(r, s.maxSize)
	if err != nil {
		if errors.Is(err, encoding.ErrTooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxSize)
		}

		return nil, err
	}

	return b, nil
}

// List returns the backups in the backup directory, newest first.
func (s *Service) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ext) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}

		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(s.dir, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}

		return strings.Compare(b.Name, a.Name)
	})

	return entries, nil
}

func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, filepath.Base(name))

	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}

	return name
}
