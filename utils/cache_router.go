package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
	CacheAsset   = 7 * 86400 // originals and thumbs never change under the same path
)

type CacheRouter struct {
	CacheTime int // defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCacheHeader(c, cr.CacheTime)
		c.Next()
	}
}

// SetCacheHeader sets cache-control for the current response, overriding the router default
func SetCacheHeader(c *gin.Context, cacheTime int) {
	switch cacheTime {
	case CacheCustom:
		return
	case CacheNoCache:
		c.Header("cache-control", "no-cache")
	default:
		c.Header("cache-control", "private, max-age="+strconv.Itoa(cacheTime))
	}
}
