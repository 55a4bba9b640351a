package models

import (
	"fmt"
	"gallery/db"
	"gallery/storage"
	"gallery/utils"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ArchiveSuffixFull  = "full_album"
	ArchiveSuffixLiked = "liked_images"

	// Stable listing order, display_order is only a hint and may contain ties
	albumOrder = "display_order ASC, created_at ASC, id ASC"
)

type Album struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"`
	Title        string  `gorm:"type:varchar(300);not null"`
	Description  *string `gorm:"type:text"`
	CoverImage   *string `gorm:"type:varchar(600)"`
	PasswordHash *string `gorm:"type:varchar(100)"` // present if and only if the album is protected
	DisplayOrder int     `gorm:"not null;index:album_listing,priority:2"`
	IsPublished  bool    `gorm:"not null;index:album_listing,priority:1"`
	CreatedAt    int64   `gorm:"autoCreateTime:nano;index:album_listing,priority:3"`
	Assets       []Asset `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AlbumUpdate carries a partial update, nil fields are left untouched
type AlbumUpdate struct {
	Title        *string
	Description  *string // an empty description is stored as NULL
	DisplayOrder *int
	IsPublished  *bool
}

func NewAlbum(title string) Album {
	return Album{
		Title:       title,
		IsPublished: true,
	}
}

func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Album) IsProtected() bool {
	return a.PasswordHash != nil
}

// SetProtection hashes secret into the album, an empty secret clears the protection.
// Persisting the change is up to the caller.
func (a *Album) SetProtection(secret string) error {
	if secret == "" {
		a.PasswordHash = nil
		return nil
	}
	digest, err := utils.HashSecret(secret)
	if err != nil {
		return fmt.Errorf("hashing album password: %w", err)
	}
	a.PasswordHash = &digest
	return nil
}

// ArchiveName derives a download name such as "Summer_Trip_full_album"
func (a *Album) ArchiveName(suffix string) string {
	title := strings.Trim(utils.FillWhitespace(a.Title), "\"")
	if title == "" {
		title = "album"
	}
	return title + "_" + suffix
}

func FindAlbum(id string) (album Album, err error) {
	err = db.Instance.First(&album, "id = ?", id).Error
	return album, notFound(err)
}

// FindPublishedAlbum is the visitor lookup, unpublished albums do not exist for visitors
func FindPublishedAlbum(id string) (album Album, err error) {
	err = db.Instance.First(&album, "id = ? AND is_published = ?", id, true).Error
	return album, notFound(err)
}

func ListAlbums(includeUnpublished bool) (albums []Album, err error) {
	tx := db.Instance.Order(albumOrder)
	if !includeUnpublished {
		tx = tx.Where("is_published = ?", true)
	}
	err = tx.Find(&albums).Error
	return
}

// Update applies u to the album and persists only the changed columns
func (a *Album) Update(u AlbumUpdate) error {
	changes := map[string]interface{}{}
	if u.Title != nil {
		a.Title = *u.Title
		changes["title"] = a.Title
	}
	if u.Description != nil {
		a.Description = u.Description
		if *u.Description == "" {
			a.Description = nil
		}
		changes["description"] = a.Description
	}
	if u.DisplayOrder != nil {
		a.DisplayOrder = *u.DisplayOrder
		changes["display_order"] = a.DisplayOrder
	}
	if u.IsPublished != nil {
		a.IsPublished = *u.IsPublished
		changes["is_published"] = a.IsPublished
	}
	if len(changes) == 0 {
		_, err := FindAlbum(a.ID)
		return err
	}
	result := db.Instance.Model(&Album{}).Where("id = ?", a.ID).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL does not count rows whose values did not change
		_, err := FindAlbum(a.ID)
		return err
	}
	return nil
}

// Delete removes the album directory first and then all records in one transaction.
// Both steps are idempotent, so a failed delete can simply be retried.
func (a *Album) Delete(store storage.StorageAPI) error {
	if err := store.DeleteDir(storage.AlbumDir(a.ID)); err != nil {
		return fmt.Errorf("removing album files: %w", err)
	}
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", a.ID).Delete(&Asset{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Album{}, "id = ?", a.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ReorderAlbums assigns display_order by position in ids. Unknown ids are ignored.
func ReorderAlbums(ids []string) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&Album{}).Where("id = ?", id).Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReorderAssets assigns display_order by position in ids, only for assets of this album
func (a *Album) ReorderAssets(ids []string) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(&Asset{}).Where("id = ? AND album_id = ?", id, a.ID).Update("display_order", i).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
