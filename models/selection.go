package models

import (
	"gallery/db"
)

// SelectAll returns every asset of the album in display order. An empty album gives an empty slice.
func (a *Album) SelectAll() ([]Asset, error) {
	assets := []Asset{}
	err := db.Instance.Where("album_id = ?", a.ID).Order(assetOrder).Find(&assets).Error
	return assets, err
}

// SelectSubset keeps the album's assets whose ids were requested, in display order.
// Ids that are unknown or belong to another album are dropped silently.
func (a *Album) SelectSubset(ids []string) ([]Asset, error) {
	if len(ids) == 0 {
		return nil, ErrInvalidScope
	}
	assets := []Asset{}
	err := db.Instance.Where("album_id = ? AND id IN ?", a.ID, ids).Order(assetOrder).Find(&assets).Error
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, ErrInvalidScope
	}
	return assets, nil
}
