package storage

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidPath is returned for paths that would leave the storage root.
var ErrInvalidPath = errors.New("path escapes storage root")

type FileStorage interface {
	Save(path string, data io.Reader) error
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
	List(dir string) ([]string, error)
	FullPath(path string) (string, error)
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) FileStorage {
	return &fileStorage{basePath: basePath}
}

// FullPath resolves a storage relative path to a file system path under the root.
func (s *fileStorage) FullPath(path string) (string, error) {
	slashed := filepath.ToSlash(path)
	for _, segment := range strings.Split(slashed, "/") {
		if segment == ".." {
			return "", errors.Wrapf(ErrInvalidPath, "%q", path)
		}
	}
	clean := filepath.Clean("/" + slashed)
	if clean == "/" {
		return "", errors.Wrapf(ErrInvalidPath, "%q", path)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Save writes data to path through a temporary file, so readers never observe a partial file.
func (s *fileStorage) Save(path string, data io.Reader) error {
	fullPath, err := s.FullPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := file.Name()

	if _, err = io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(tmpName)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fullPath)
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	fullPath, err := s.FullPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete removes a file or a whole directory tree. Missing paths report os.ErrNotExist.
func (s *fileStorage) Delete(path string) error {
	fullPath, err := s.FullPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); err != nil {
		return err
	}
	return os.RemoveAll(fullPath)
}

func (s *fileStorage) Exists(path string) bool {
	fullPath, err := s.FullPath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

// List returns the sorted names of the regular files directly inside dir.
func (s *fileStorage) List(dir string) ([]string, error) {
	fullPath, err := s.FullPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".tmp-") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
