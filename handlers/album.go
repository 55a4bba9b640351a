package handlers

import (
	"net/http"

	"gallery/db"
	"gallery/models"
	"gallery/storage"

	"github.com/gin-gonic/gin"
)

type AlbumCreateRequest struct {
	Title        string  `form:"title" json:"title" binding:"required"`
	Description  *string `form:"description" json:"description"`
	Password     string  `form:"password" json:"password"`
	DisplayOrder int     `form:"display_order" json:"display_order"`
	IsPublished  *bool   `form:"is_published" json:"is_published"`
}

type AlbumSaveRequest struct {
	Title        *string `form:"title" json:"title"`
	Description  *string `form:"description" json:"description"`
	DisplayOrder *int    `form:"display_order" json:"display_order"`
	IsPublished  *bool   `form:"is_published" json:"is_published"`
}

type AlbumPasswordRequest struct {
	Password string `form:"password" json:"password"`
}

type AlbumPasswordResponse struct {
	Error       string `json:"error"`
	IsProtected bool   `json:"is_protected"`
}

func AlbumList(c *gin.Context) {
	result, err := models.DescribeAlbums(true)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func AlbumCreate(c *gin.Context) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album := models.NewAlbum(r.Title)
	if r.Description != nil && *r.Description != "" {
		album.Description = r.Description
	}
	album.DisplayOrder = r.DisplayOrder
	if r.IsPublished != nil {
		album.IsPublished = *r.IsPublished
	}
	if err := album.SetProtection(r.Password); err != nil {
		ErrorResponse(c, err)
		return
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		ErrorResponse(c, err)
		return
	}
	AlbumGet(c, &album)
}

func AlbumGet(c *gin.Context, album *models.Album) {
	detail, err := album.AdminDetail()
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func AlbumSave(c *gin.Context, album *models.Album) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Title != nil && *r.Title == "" {
		c.JSON(http.StatusBadRequest, Response{"title cannot be empty"})
		return
	}
	err := album.Update(models.AlbumUpdate{
		Title:        r.Title,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
		IsPublished:  r.IsPublished,
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	AlbumGet(c, album)
}

func AlbumDelete(c *gin.Context, album *models.Album) {
	if err := album.Delete(storage.GetDefaultStorage()); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// AlbumPassword sets the album password, an empty password removes the protection
func AlbumPassword(c *gin.Context, album *models.Album) {
	r := AlbumPasswordRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := album.UpdateProtection(r.Password); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, AlbumPasswordResponse{IsProtected: album.IsProtected()})
}

func AlbumsReorder(c *gin.Context) {
	r := IDsRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := models.ReorderAlbums(r.IDs); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func AlbumAssetsReorder(c *gin.Context, album *models.Album) {
	r := IDsRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := album.ReorderAssets(r.IDs); err != nil {
		ErrorResponse(c, err)
		return
	}
	AlbumGet(c, album)
}
