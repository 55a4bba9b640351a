package models

import (
	"errors"
	"fmt"
	"gallery/db"
	"gallery/storage"
	"gallery/utils"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const assetOrder = "display_order ASC, created_at ASC, id ASC"

type Asset struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"`
	Name         string  `gorm:"type:varchar(300)"`
	AlbumID      string  `gorm:"<-:create;type:varchar(36);not null;index:album_asset_order,priority:1"`
	FilePath     string  `gorm:"type:varchar(600);not null"`
	ThumbPath    *string `gorm:"type:varchar(600)"`
	MimeType     string  `gorm:"type:varchar(100)"`
	Size         int64
	DisplayOrder int   `gorm:"not null;index:album_asset_order,priority:2"`
	CreatedAt    int64 `gorm:"autoCreateTime:nano;index:album_asset_order,priority:3"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// FileName is the name the file was uploaded with, used for downloads and archive entries
func (a *Asset) FileName() string {
	if a.Name != "" {
		return a.Name
	}
	return path.Base(a.FilePath)
}

func FindAsset(id string) (asset Asset, err error) {
	err = db.Instance.First(&asset, "id = ?", id).Error
	return asset, notFound(err)
}

// FindAsset finds an asset only if it belongs to the album
func (a *Album) FindAsset(id string) (asset Asset, err error) {
	err = db.Instance.First(&asset, "id = ? AND album_id = ?", id, a.ID).Error
	return asset, notFound(err)
}

const maxNameAttempts = 1000

// assetNames yields the storage names to try for an upload: photo.jpg, photo_1.jpg, photo_2.jpg...
func assetNames(name string) func(i int) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return func(i int) string {
		if i == 0 {
			return name
		}
		return base + "_" + strconv.Itoa(i) + ext
	}
}

// AddAsset stores the file and only then creates its record. If the record cannot be created
// the stored file is removed again, so a failed upload leaves nothing behind.
// name is the uploaded file name; it is kept as is for downloads, the stored file gets a sanitized one.
func (a *Album) AddAsset(store storage.StorageAPI, name, mimeType string, reader io.Reader) (*Asset, error) {
	asset := Asset{
		AlbumID:  a.ID,
		Name:     utils.BaseName(name),
		MimeType: mimeType,
	}
	candidates := assetNames(utils.SanitizeFileName(name))
	var err error
	for i := 0; ; i++ {
		if i == maxNameAttempts {
			return nil, fmt.Errorf("no free file name for %q", asset.Name)
		}
		candidate := candidates(i)
		if candidate == storage.ThumbsDir {
			continue
		}
		asset.FilePath = storage.AssetPath(a.ID, candidate)
		asset.Size, err = store.Create(asset.FilePath, reader)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("saving file: %w", err)
		}
		break
	}
	if err = db.Instance.Create(&asset).Error; err != nil {
		_ = store.Delete(asset.FilePath)
		return nil, fmt.Errorf("creating asset: %w", err)
	}
	if a.CoverImage == nil {
		a.CoverImage = &asset.FilePath
		if err = db.Instance.Model(a).Update("cover_image", a.CoverImage).Error; err != nil {
			return &asset, fmt.Errorf("setting cover image: %w", err)
		}
	}
	return &asset, nil
}

// SetThumb stores a thumbnail for the asset and records its path
func (a *Asset) SetThumb(store storage.StorageAPI, reader io.Reader) error {
	thumbPath := storage.ThumbPath(a.AlbumID, path.Base(a.FilePath))
	if _, err := store.Save(thumbPath, reader); err != nil {
		return err
	}
	if err := db.Instance.Model(a).Update("thumb_path", thumbPath).Error; err != nil {
		_ = store.Delete(thumbPath)
		return err
	}
	a.ThumbPath = &thumbPath
	return nil
}

// Delete removes the backing files and then the record. If the asset was the album cover,
// the next asset in order becomes the cover.
func (a *Asset) Delete(store storage.StorageAPI) error {
	if a.ThumbPath != nil {
		if err := store.Delete(*a.ThumbPath); err != nil {
			return fmt.Errorf("removing thumbnail: %w", err)
		}
	}
	if err := store.Delete(a.FilePath); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Asset{}, "id = ?", a.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		var next Asset
		err := tx.Where("album_id = ?", a.AlbumID).Order(assetOrder).Limit(1).Find(&next).Error
		if err != nil {
			return err
		}
		var cover *string
		if next.ID != "" {
			cover = &next.FilePath
		}
		return tx.Model(&Album{}).
			Where("id = ? AND cover_image = ?", a.AlbumID, a.FilePath).
			Update("cover_image", cover).Error
	})
}
