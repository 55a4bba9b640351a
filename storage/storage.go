package storage

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// StorageAPI works with storage relative paths (see AssetPath). A missing file is reported
// by Stat and Open as an error matching fs.ErrNotExist.
type StorageAPI interface {
	// Save writes the file, replacing it if it exists
	Save(path string, reader io.Reader) (int64, error)
	// Create writes a new file only if path is free, otherwise the error matches fs.ErrExist
	Create(path string, reader io.Reader) (int64, error)
	Open(path string) (io.ReadCloser, error)
	Stat(path string) (FileInfo, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	// Delete removes a single file, a missing file is not an error
	Delete(path string) error
	// DeleteDir removes a directory with everything under it, a missing directory is not an error
	DeleteDir(dir string) error
	GetBucket() *Bucket
}

var (
	cachedStorage StorageAPI
)

func Init() {
	bucket := BucketFromConfig()
	slog.Info("storage bucket", "name", bucket.Name, "type", bucket.StorageType, "path", bucket.Path)
	storage, err := NewStorage(&bucket)
	if err != nil {
		panic(err)
	}
	cachedStorage = storage
}

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket)
	case StorageTypeS3:
		return NewS3Storage(bucket)
	}
	return nil, fmt.Errorf("storage type %d unavailable for bucket %s", bucket.StorageType, bucket.Name)
}

// Use replaces the default storage
func Use(s StorageAPI) {
	cachedStorage = s
}

func GetDefaultStorage() StorageAPI {
	if cachedStorage == nil {
		panic("no storage available")
	}
	return cachedStorage
}
