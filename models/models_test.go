package models

import (
	"path/filepath"
	"strings"
	"testing"

	"gallery/db"
	"gallery/storage"

	"gorm.io/driver/sqlite"
)

// setup opens a fresh SQLite database and disk storage, both under t.TempDir()
func setup(t *testing.T) storage.StorageAPI {
	t.Helper()
	if err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "gallery.db"))); err != nil {
		t.Fatalf("opening db: %v", err)
	}
	sqlDB, err := db.Instance.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	Init()
	store, err := storage.NewDiskStorage(&storage.Bucket{
		Name:        "test",
		StorageType: storage.StorageTypeFile,
		Path:        t.TempDir(),
	})
	if err != nil {
		t.Fatalf("creating storage: %v", err)
	}
	return store
}

// createAlbum creates a published album with one asset per file name, in that display order
func createAlbum(t *testing.T, store storage.StorageAPI, title, password string, files ...string) (*Album, []*Asset) {
	t.Helper()
	album := NewAlbum(title)
	if err := album.SetProtection(password); err != nil {
		t.Fatalf("SetProtection: %v", err)
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		t.Fatalf("creating album: %v", err)
	}
	assets := []*Asset{}
	for i, name := range files {
		asset, err := album.AddAsset(store, name, "image/jpeg", strings.NewReader("content of "+name))
		if err != nil {
			t.Fatalf("AddAsset(%s): %v", name, err)
		}
		if err = db.Instance.Model(asset).Update("display_order", i).Error; err != nil {
			t.Fatalf("setting order: %v", err)
		}
		asset.DisplayOrder = i
		assets = append(assets, asset)
	}
	return &album, assets
}

func assetIDs(assets []Asset) []string {
	ids := []string{}
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids
}

func infoIDs(assets []AssetInfo) []string {
	ids := []string{}
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids
}

func strPtr(s string) *string {
	return &s
}

func dbCount(model interface{}, count *int64) error {
	return db.Instance.Model(model).Count(count).Error
}
