package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/auth"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"
)

func (rs *RestfulServer) ListActiveAlerts(c *gin.Context) {
	items, err := rs.Security.Alert.ListActive(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (rs *RestfulServer) GetAlertSettings(c *gin.Context) {
	settings, err := rs.Security.Alert.GetSettings(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (rs *RestfulServer) UpdateAlertSettings(c *gin.Context) {
	var req models.AlertSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := rs.Security.Alert.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (rs *RestfulServer) ListAlertHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit", security.DefaultHistoryLimit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items, err := rs.Security.Alert.ListHistory(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (rs *RestfulServer) SendTestAlert(c *gin.Context) {
	item, err := rs.Security.Alert.SendTest(c.Request.Context(), models.AlertChannel(c.Param("channel")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (rs *RestfulServer) AcknowledgeAlert(c *gin.Context) {
	by := auth.SessionFrom(c).Account().Username

	item, err := rs.Security.Alert.Acknowledge(c.Request.Context(), c.Param("id"), by)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
