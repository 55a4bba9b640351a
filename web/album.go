package web

import (
	"mime"
	"net/http"

	"gallery/auth"
	"gallery/handlers"
	"gallery/models"
	"gallery/storage"
	"gallery/utils"

	"github.com/gin-gonic/gin"
)

type AssetFetchRequest struct {
	Thumb    int `form:"thumb"`
	Download int `form:"download"`
}

// AlbumList lists published albums, never with their assets
func AlbumList(c *gin.Context) {
	result, err := models.DescribeAlbums(false)
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AlbumDetail shows a published album, the assets of a protected one stay hidden
func AlbumDetail(c *gin.Context, album *models.Album) {
	detail, err := album.FetchDetail()
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AlbumUnlock returns the full album if the password is right. Nothing is remembered,
// later requests for protected content have to send the password again.
func AlbumUnlock(c *gin.Context, album *models.Album) {
	detail, err := album.Unlock(auth.SecretFrom(c))
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AlbumAssetFetch serves the original or the thumbnail of a single asset
func AlbumAssetFetch(c *gin.Context, album *models.Album) {
	r := AssetFetchRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	asset, err := album.FindAsset(c.Param("asset_id"))
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	path := asset.FilePath
	if r.Thumb == 1 && asset.ThumbPath != nil {
		path = *asset.ThumbPath
		c.Header("content-type", "image/jpeg")
	} else {
		c.Header("content-type", asset.MimeType)
		if r.Download == 1 {
			c.Header("content-disposition", attachment(asset.FileName()))
		}
	}
	// Protected content must not end up in shared caches or be served without the password
	if !album.IsProtected() {
		utils.SetCacheHeader(c, utils.CacheAsset)
	}
	storage.GetDefaultStorage().Serve(path, c.Request, c.Writer)
}

func attachment(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
