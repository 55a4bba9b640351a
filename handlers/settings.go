package handlers

import (
	"net/http"

	"gallery/models"

	"github.com/gin-gonic/gin"
)

func SettingsGet(c *gin.Context) {
	settings, err := models.GetSiteSettings()
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func SettingsSave(c *gin.Context) {
	r := models.SiteSettingsUpdate{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	settings, err := models.UpdateSiteSettings(r)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
