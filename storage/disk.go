package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type DiskStorage struct {
	Bucket Bucket
	// BasePath is a directory (usually mount point of a disk) that is writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(bucket *Bucket) (*DiskStorage, error) {
	if err := os.MkdirAll(bucket.Path, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", bucket.Path, err)
	}
	return &DiskStorage{
		Bucket:   *bucket,
		BasePath: bucket.Path,
		dirs:     cmap.New[bool](),
	}, nil
}

func (s *DiskStorage) createDir(dir string) error {
	if ok, _ := s.dirs.Get(dir); ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	s.dirs.Set(dir, true)
	return nil
}

// GetFullPath maps a storage path into BasePath, rejecting anything that escapes it
func (s *DiskStorage) GetFullPath(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.BasePath, clean), nil
}

func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	return s.write(path, reader, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

// Create fails with fs.ErrExist if anything, a file or a directory, is already at path
func (s *DiskStorage) Create(path string, reader io.Reader) (int64, error) {
	return s.write(path, reader, os.O_CREATE|os.O_EXCL|os.O_WRONLY)
}

func (s *DiskStorage) write(path string, reader io.Reader, flag int) (int64, error) {
	fileName, err := s.GetFullPath(path)
	if err != nil {
		return 0, err
	}
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.OpenFile(fileName, flag, 0644)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Do not leave partial files behind
		_ = os.Remove(fileName)
		return 0, err
	}
	return result, nil
}

func (s *DiskStorage) Open(path string) (io.ReadCloser, error) {
	fileName, err := s.GetFullPath(path)
	if err != nil {
		return nil, err
	}
	return os.Open(fileName)
}

func (s *DiskStorage) Stat(path string) (FileInfo, error) {
	fileName, err := s.GetFullPath(path)
	if err != nil {
		return FileInfo{}, err
	}
	fi, err := os.Stat(fileName)
	if err != nil {
		return FileInfo{}, err
	}
	if fi.IsDir() {
		return FileInfo{}, fmt.Errorf("%s is a directory: %w", path, fs.ErrNotExist)
	}
	return FileInfo{Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName, err := s.GetFullPath(path)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	// Handles Byte-ranges too
	http.ServeFile(writer, request, fileName)
}

func (s *DiskStorage) Delete(path string) error {
	fileName, err := s.GetFullPath(path)
	if err != nil {
		return err
	}
	if err = os.Remove(fileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStorage) DeleteDir(dir string) error {
	dirName, err := s.GetFullPath(dir)
	if err != nil {
		return err
	}
	if err = os.RemoveAll(dirName); err != nil {
		return err
	}
	// Forget cached directories so they get re-created on the next Save
	for _, cached := range s.dirs.Keys() {
		if cached == dirName || strings.HasPrefix(cached, dirName+string(filepath.Separator)) {
			s.dirs.Remove(cached)
		}
	}
	return nil
}

func (s *DiskStorage) GetBucket() *Bucket {
	return &s.Bucket
}
