package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
	CacheOneDay  = 86400
)

type CacheRouter struct {
	CacheTime int // defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCacheTime(c, cr.CacheTime)
		c.Next()
	}
}

// SetCacheTime overrides the cache-control header for a single response
func SetCacheTime(c *gin.Context, seconds int) {
	switch seconds {
	case CacheCustom:
	case CacheNoCache:
		c.Header("cache-control", "no-cache")
	default:
		c.Header("cache-control", "private, max-age="+strconv.Itoa(seconds))
	}
}
