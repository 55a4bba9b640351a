package models

import (
	"gallery/db"
	"gallery/utils"
)

// AlbumSummary never carries assets. The admin fields are only filled for the admin listing.
type AlbumSummary struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CoverImage   *string `json:"cover_image"`
	IsProtected  bool    `json:"is_protected"`
	IsPublished  *bool   `json:"is_published,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

type AssetInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	FilePath  string  `json:"file_path"`
	ThumbPath *string `json:"thumb_path"`
}

func (a *Asset) Info() AssetInfo {
	return AssetInfo{
		ID:        a.ID,
		Name:      a.FileName(),
		FilePath:  a.FilePath,
		ThumbPath: a.ThumbPath,
	}
}

type AlbumDetail struct {
	Unlocked     bool        `json:"unlocked,omitempty"`
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  *string     `json:"description"`
	CoverImage   *string     `json:"cover_image,omitempty"`
	IsProtected  bool        `json:"is_protected"`
	IsPublished  *bool       `json:"is_published,omitempty"`
	DisplayOrder *int        `json:"display_order,omitempty"`
	Assets       []AssetInfo `json:"assets"`
}

func (a *Album) Describe(admin bool) AlbumSummary {
	summary := AlbumSummary{
		ID:          a.ID,
		Title:       a.Title,
		CoverImage:  a.CoverImage,
		IsProtected: a.IsProtected(),
	}
	if admin {
		summary.IsPublished = &a.IsPublished
		summary.DisplayOrder = &a.DisplayOrder
	}
	return summary
}

// DescribeAlbums lists album summaries. Visitors only get published albums.
func DescribeAlbums(includeUnpublished bool) ([]AlbumSummary, error) {
	albums, err := ListAlbums(includeUnpublished)
	if err != nil {
		return nil, err
	}
	result := make([]AlbumSummary, 0, len(albums))
	for i := range albums {
		result = append(result, albums[i].Describe(includeUnpublished))
	}
	return result, nil
}

func (a *Album) detail() AlbumDetail {
	return AlbumDetail{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		IsProtected: a.IsProtected(),
		Assets:      []AssetInfo{},
	}
}

func (a *Album) withAssets(detail AlbumDetail) (AlbumDetail, error) {
	assets, err := a.SelectAll()
	if err != nil {
		return detail, err
	}
	for i := range assets {
		detail.Assets = append(detail.Assets, assets[i].Info())
	}
	return detail, nil
}

// FetchDetail is what anybody may see. Assets of a protected album are withheld until Unlock.
func (a *Album) FetchDetail() (AlbumDetail, error) {
	detail := a.detail()
	if a.IsProtected() {
		return detail, nil
	}
	return a.withAssets(detail)
}

// Authorize is the per request gate: unprotected albums always pass, protected ones
// only with a secret that verifies against the stored digest.
func (a *Album) Authorize(secret *string) error {
	if !a.IsProtected() {
		return nil
	}
	if secret == nil {
		// same bcrypt work as a wrong secret
		utils.VerifySecret("", *a.PasswordHash)
		return ErrForbidden
	}
	if !utils.VerifySecret(*secret, *a.PasswordHash) {
		return ErrForbidden
	}
	return nil
}

// Unlock returns the full detail if Authorize passes. Nothing is remembered between calls.
func (a *Album) Unlock(secret *string) (AlbumDetail, error) {
	if err := a.Authorize(secret); err != nil {
		return AlbumDetail{}, err
	}
	detail := a.detail()
	detail.Unlocked = true
	return a.withAssets(detail)
}

// UnlockAlbum looks up a published album and unlocks it
func UnlockAlbum(id string, secret *string) (AlbumDetail, error) {
	album, err := FindPublishedAlbum(id)
	if err != nil {
		return AlbumDetail{}, err
	}
	return album.Unlock(secret)
}

// AdminDetail always includes the assets and the admin only fields
func (a *Album) AdminDetail() (AlbumDetail, error) {
	detail := a.detail()
	detail.CoverImage = a.CoverImage
	detail.IsPublished = &a.IsPublished
	detail.DisplayOrder = &a.DisplayOrder
	return a.withAssets(detail)
}

// UpdateProtection sets or clears the album password and persists it
func (a *Album) UpdateProtection(secret string) error {
	if err := a.SetProtection(secret); err != nil {
		return err
	}
	result := db.Instance.Model(&Album{}).Where("id = ?", a.ID).Update("password_hash", a.PasswordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero rows when the value did not change, so check the album is still there
		_, err := FindAlbum(a.ID)
		return err
	}
	return nil
}
