package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"gallery/archive"
	"gallery/handlers"
	"gallery/models"
	"gallery/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type LikedRequest struct {
	LikedIDs []string `json:"liked_ids"`
}

// AlbumDownload sends every asset of the album as one zip archive
func AlbumDownload(c *gin.Context, album *models.Album) {
	assets, err := album.SelectAll()
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	sendArchive(c, album, album.ArchiveName(models.ArchiveSuffixFull), assets)
}

// AlbumDownloadLiked sends the requested assets as one zip archive. Ids of other albums are ignored.
func AlbumDownloadLiked(c *gin.Context, album *models.Album) {
	ids, err := likedIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	assets, err := album.SelectSubset(ids)
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	sendArchive(c, album, album.ArchiveName(models.ArchiveSuffixLiked), assets)
}

// likedIDs accepts a JSON body {"liked_ids": [...]}, a form field holding a JSON array,
// or the same form field repeated once per id
func likedIDs(c *gin.Context) ([]string, error) {
	if c.ContentType() == binding.MIMEJSON {
		r := LikedRequest{}
		if err := c.ShouldBindJSON(&r); err != nil {
			return nil, err
		}
		return r.LikedIDs, nil
	}
	values := c.PostFormArray("liked_ids")
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		ids := []string{}
		if err := json.Unmarshal([]byte(values[0]), &ids); err != nil {
			return nil, fmt.Errorf("liked_ids: %w", err)
		}
		return ids, nil
	}
	return values, nil
}

func sendArchive(c *gin.Context, album *models.Album, name string, assets []models.Asset) {
	entries := make([]archive.Entry, 0, len(assets))
	for i := range assets {
		entries = append(entries, archive.Entry{
			Name: assets[i].FileName(),
			Path: assets[i].FilePath,
		})
	}
	pkg, err := archive.New(storage.GetDefaultStorage(), name, entries)
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	c.Header("content-type", "application/zip")
	c.Header("content-disposition", attachment(pkg.FileName()))
	c.Status(http.StatusOK)
	written, err := pkg.Stream(c.Request.Context(), c.Writer)
	if err != nil {
		// Headers are already sent, all we can do is cut the response short
		slog.Error("archive interrupted", "album", album.ID, "archive", pkg.FileName(), "written", written, "error", err)
		c.Abort()
		return
	}
	slog.Info("archive sent", "album", album.ID, "archive", pkg.FileName(), "files", written)
}
