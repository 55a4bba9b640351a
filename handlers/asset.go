package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"gallery/config"
	"gallery/models"
	"gallery/storage"
	"gallery/utils"

	"github.com/gin-gonic/gin"
)

type UploadResponse struct {
	Error  string             `json:"error"`
	Assets []models.AssetInfo `json:"assets"`
	Failed []string           `json:"failed"`
}

func limitUploadSize(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(config.MAX_UPLOAD_MB)<<20)
}

// saveUpload stores one uploaded file in the album and creates a thumbnail for images if enabled
func saveUpload(album *models.Album, fileHeader *multipart.FileHeader) (*models.Asset, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	var reader io.Reader = file
	original := bytes.Buffer{}
	makeThumb := config.THUMB_SIZE > 0 && strings.HasPrefix(mimeType, "image/")
	if makeThumb {
		reader = io.TeeReader(file, &original)
	}
	store := storage.GetDefaultStorage()
	asset, err := album.AddAsset(store, fileHeader.Filename, mimeType, reader)
	if err != nil {
		return asset, err
	}
	if makeThumb {
		thumb := bytes.Buffer{}
		info, err := utils.CreateThumb(uint(config.THUMB_SIZE), &original, &thumb)
		if err == nil {
			err = asset.SetThumb(store, &thumb)
		}
		if err != nil {
			// the original is stored, the thumbnail is optional
			slog.Warn("thumbnail not created", "asset", asset.ID, "error", err)
		} else {
			slog.Debug("thumbnail created", "asset", asset.ID, "width", info.NewX, "height", info.NewY, "size", info.ThumbSize)
		}
	}
	return asset, nil
}

func AssetUpload(c *gin.Context, album *models.Album) {
	limitUploadSize(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	asset, err := saveUpload(album, fileHeader)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, asset.Info())
}

// AssetUploadMultiple stores every file in the "files" field. Files that fail are reported by name.
func AssetUploadMultiple(c *gin.Context, album *models.Album) {
	limitUploadSize(c)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, Response{"no files uploaded"})
		return
	}
	result := UploadResponse{
		Assets: []models.AssetInfo{},
		Failed: []string{},
	}
	for _, fileHeader := range files {
		asset, err := saveUpload(album, fileHeader)
		if err != nil {
			slog.Error("upload failed", "album", album.ID, "file", fileHeader.Filename, "error", err)
			result.Failed = append(result.Failed, fileHeader.Filename)
			continue
		}
		result.Assets = append(result.Assets, asset.Info())
	}
	if len(result.Assets) == 0 {
		result.Error = "all uploads failed"
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func AssetDelete(c *gin.Context) {
	asset, err := models.FindAsset(c.Param("id"))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	if err = asset.Delete(storage.GetDefaultStorage()); err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
