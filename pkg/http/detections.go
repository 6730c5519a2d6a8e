package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// queryInt reads an optional integer query parameter, falling back to def when it is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", security.ErrInvalidInput, name)
	}
	return v, nil
}

func historyFilter(c *gin.Context) (models.HistoryFilter, error) {
	filter := models.HistoryFilter{
		Search: c.Query("search"),
		Status: models.DetectionStatus(c.Query("status")),
	}
	var err error
	if filter.Days, err = queryInt(c, "days", 0); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit", 0); err != nil {
		return filter, err
	}
	return filter, nil
}

func (rs *RestfulServer) ListDetections(c *gin.Context) {
	limit, err := queryInt(c, "limit", security.DefaultRecentLimit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	rows, err := rs.Security.Detection.ListRecent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) GetLiveDetections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active_cameras": rs.Live.Active(),
		"events":         rs.Live.Sink().Events(),
	})
}

func (rs *RestfulServer) ListDetectionsByRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: start must be RFC3339", security.ErrInvalidInput))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: end must be RFC3339", security.ErrInvalidInput))
		return
	}

	rows, err := rs.Security.Detection.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type DetectionStatusRequest struct {
	Status string `json:"status"`
}

var detectionStatusRequestSchema = z.Struct(z.Shape{
	"Status": z.String().OneOf([]string{
		string(models.DetectionStatusActive),
		string(models.DetectionStatusResolved),
		string(models.DetectionStatusInvestigating),
	}).Required(),
})

func (rs *RestfulServer) UpdateDetectionStatus(c *gin.Context) {
	var req DetectionStatusRequest
	if err := detectionStatusRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	row, err := rs.Security.Detection.UpdateStatus(c.Request.Context(), c.Param("id"), models.DetectionStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	filter, err := historyFilter(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	rows, err := rs.Security.Detection.History(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rs *RestfulServer) ExportHistory(c *gin.Context) {
	filter, err := historyFilter(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if filter.Status != "" && !security.ValidDetectionStatus(filter.Status) {
		abortWithError(c, fmt.Errorf("%w: unknown detection status %q", security.ErrInvalidInput, filter.Status))
		return
	}

	filename := fmt.Sprintf("security-history-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := rs.Security.Detection.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
		// status line is already written
		_ = c.Error(err)
	}
}

func (rs *RestfulServer) GetStats(c *gin.Context) {
	days, err := queryInt(c, "days", security.DefaultStatsDays)
	if err != nil {
		abortWithError(c, err)
		return
	}

	stats, err := rs.Security.Detection.Stats(c.Request.Context(), days)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rs *RestfulServer) GetHourlyStats(c *gin.Context) {
	stats, err := rs.Security.Detection.HourlyStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rs *RestfulServer) GetCameraStats(c *gin.Context) {
	stats, err := rs.Security.Detection.CameraStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rs *RestfulServer) GetTypeBreakdown(c *gin.Context) {
	stats, err := rs.Security.Detection.TypeBreakdown(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
