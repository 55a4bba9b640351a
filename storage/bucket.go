package storage

import (
	"gallery/config"
	"strings"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const (
	// StorageLocationAlbums holds one directory per album, keyed by the album ID
	StorageLocationAlbums = "albums"
	ThumbsDir             = "thumbs"
)

type Bucket struct {
	Name          string
	StorageType   StorageType
	Path          string // Path on a drive or a prefix in a S3 bucket
	Endpoint      string
	Region        string
	AuthDetails   string // Authentication details. In case of S3 bucket - "key:secret"
	SSEEncryption string
}

// BucketFromConfig describes the configured storage medium
func BucketFromConfig() Bucket {
	if strings.ToLower(config.STORAGE_TYPE) == "s3" {
		return Bucket{
			Name:          config.S3_BUCKET,
			StorageType:   StorageTypeS3,
			Path:          config.S3_PREFIX,
			Endpoint:      config.S3_ENDPOINT,
			Region:        config.S3_REGION,
			AuthDetails:   config.S3_ACCESS_KEY + ":" + config.S3_SECRET_KEY,
			SSEEncryption: config.S3_SSE,
		}
	}
	return Bucket{
		Name:        "local",
		StorageType: StorageTypeFile,
		Path:        config.MEDIA_ROOT,
	}
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath returns the object key for a storage relative path
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	path = strings.TrimLeft(path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

// AlbumDir is the directory that owns every file of an album. Removing it removes them all.
func AlbumDir(albumID string) string {
	return StorageLocationAlbums + "/" + albumID
}

// AssetPath returns the location of an original file, e.g. albums/<id>/photo.jpg
func AssetPath(albumID, name string) string {
	return AlbumDir(albumID) + "/" + name
}

// ThumbPath returns the location of a thumbnail, thumbnails are always JPEG
func ThumbPath(albumID, name string) string {
	return AlbumDir(albumID) + "/" + ThumbsDir + "/" + name + "_thumb.jpg"
}
