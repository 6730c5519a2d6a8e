package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"liyu1981.xyz/ai-security-service/pkg/auth"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/metrics"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"
)

type RestfulServer struct {
	Server           *gin.Engine
	Security         *security.Security
	Bridge           *auth.Bridge
	Live             *security.LiveManager
	Uploads          *security.UploadProcessor
	Metrics          *metrics.Metrics
	RateLimiterStore *security.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(clientKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(clientKey)
	}
}

func (rs *RestfulServer) CheckClientLimiter(clientKey string) bool {
	limiter := rs.GetLimiter(clientKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(clientKey string, clientRate float64, clientBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(clientKey, rate.Limit(clientRate), clientBurst)
}

// ClientKey identifies the caller for rate limiting: the signed-in account, else the remote IP.
func ClientKey(c *gin.Context) string {
	if s := auth.SessionFrom(c); s != nil && s.IsAuthenticated() {
		return s.Account().ID
	}
	return c.ClientIP()
}

func (rs *RestfulServer) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rs.CheckClientLimiter(ClientKey(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, security.ErrInvalidInput),
		errors.Is(err, security.ErrUnsupportedChannel):
		return http.StatusBadRequest
	case errors.Is(err, detection.ErrFrameTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, detection.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, security.ErrCameraNotFound),
		errors.Is(err, security.ErrAccountNotFound),
		errors.Is(err, security.ErrDetectionNotFound),
		errors.Is(err, security.ErrAlertNotFound),
		errors.Is(err, security.ErrNoFrame):
		return http.StatusNotFound
	case errors.Is(err, security.ErrCameraUnavailable),
		errors.Is(err, security.ErrManagerStopped):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	if rs.Metrics != nil {
		rs.Server.GET("/metrics", gin.WrapH(rs.Metrics.Handler()))
	}

	public := rs.Server.Group("/auth", rs.RateLimit())
	{
		public.POST("/register", rs.Register)
		public.POST("/login", rs.Login)
	}

	authed := rs.Server.Group("/", auth.RequireSession(rs.Bridge), rs.RateLimit())
	{
		authed.POST("/auth/logout", rs.Logout)
		authed.GET("/auth/session", rs.GetSession)

		authed.GET("/cameras", rs.ListCameras)
		authed.GET("/cameras/:camera_id", rs.GetCamera)
		authed.POST("/cameras/:camera_id/detection/start", rs.StartDetection)
		authed.POST("/cameras/:camera_id/detection/stop", rs.StopDetection)
		authed.GET("/cameras/:camera_id/snapshot", rs.GetSnapshot)

		authed.GET("/detections", rs.ListDetections)
		authed.GET("/detections/live", rs.GetLiveDetections)
		authed.GET("/detections/range", rs.ListDetectionsByRange)
		authed.PATCH("/detections/:id/status", rs.UpdateDetectionStatus)

		authed.GET("/history", rs.GetHistory)
		authed.GET("/history/export", rs.ExportHistory)

		authed.GET("/analytics/stats", rs.GetStats)
		authed.GET("/analytics/hourly", rs.GetHourlyStats)
		authed.GET("/analytics/cameras", rs.GetCameraStats)
		authed.GET("/analytics/types", rs.GetTypeBreakdown)

		authed.POST("/uploads", rs.PostUpload)
		authed.GET("/alerts/active", rs.ListActiveAlerts)
	}

	admin := authed.Group("/", auth.RequireRole(models.RoleAdmin))
	{
		admin.POST("/cameras", rs.CreateCamera)
		admin.PUT("/cameras/:camera_id", rs.UpdateCamera)
		admin.DELETE("/cameras/:camera_id", rs.DeleteCamera)
		admin.POST("/cameras/:camera_id/recording", rs.ToggleRecording)

		admin.GET("/admin/users", rs.ListUsers)
		admin.POST("/admin/users/:id/status", rs.ToggleUserStatus)
		admin.POST("/admin/users/:id/role", rs.SetUserRole)
		admin.DELETE("/admin/users/:id", rs.DeleteUser)

		admin.GET("/alerts/settings", rs.GetAlertSettings)
		admin.PUT("/alerts/settings", rs.UpdateAlertSettings)
		admin.GET("/alerts/history", rs.ListAlertHistory)
		admin.POST("/alerts/test/:channel", rs.SendTestAlert)
		admin.POST("/alerts/:id/acknowledge", rs.AcknowledgeAlert)

		admin.POST("/limiter/:client_id", rs.PostLimiter)
	}
}
