package handlers

import (
	"errors"
	"net/http"
	"yatube/models"
	"yatube/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ImageFetchRequest struct {
	Thumb int `form:"thumb"`
}

// ImageFetch serves the original image or, with ?thumb=1, its JPEG thumbnail
func ImageFetch(c *gin.Context) {
	r := ImageFetchRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	image, err := models.ImageByKey(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	storage := image.Storage()
	if storage == nil {
		c.JSON(http.StatusInternalServerError, Response{"storage unavailable"})
		return
	}
	utils.SetCacheTime(c, utils.CacheOneDay)
	path := image.GetPath()
	if r.Thumb == 1 && image.ThumbSize > 0 {
		path = image.GetThumbPath()
		c.Header("content-type", "image/jpeg")
	} else {
		c.Header("content-type", image.MimeType)
	}
	// Disk storage handles byte-ranges, S3 redirects to a presigned URL
	storage.Serve(path, c.Request, c.Writer)
}
