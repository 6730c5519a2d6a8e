package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type CameraRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	StreamURL string `json:"stream_url" zog:"stream_url"`
	Recording bool   `json:"recording"`
}

var cameraStatuses = []string{
	string(models.CameraStatusOnline),
	string(models.CameraStatusOffline),
	string(models.CameraStatusMaintenance),
}

var cameraRequestSchema = z.Struct(z.Shape{
	"Name":      z.String().Trim().Required(),
	"Location":  z.String().Trim().Required(),
	"Status":    z.String().OneOf(append([]string{""}, cameraStatuses...)),
	"StreamURL": z.String(),
	"Recording": z.Bool(),
})

type CameraResponse struct {
	models.Camera
	DetectionActive bool `json:"detection_active"`
}

func (rs *RestfulServer) cameraResponse(camera models.Camera) CameraResponse {
	return CameraResponse{Camera: camera, DetectionActive: rs.Live != nil && rs.Live.IsActive(camera.ID)}
}

func (rs *RestfulServer) ListCameras(c *gin.Context) {
	cameras, err := rs.Security.Camera.ListCameras(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := make([]CameraResponse, len(cameras))
	for i, camera := range cameras {
		resp[i] = rs.cameraResponse(camera)
	}
	c.JSON(http.StatusOK, resp)
}

func (rs *RestfulServer) GetCamera(c *gin.Context) {
	camera, err := rs.Security.Camera.GetCamera(c.Request.Context(), c.Param("camera_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.cameraResponse(*camera))
}

func (rs *RestfulServer) CreateCamera(c *gin.Context) {
	var req CameraRequest
	if err := cameraRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	camera, err := rs.Security.Camera.CreateCamera(c.Request.Context(), &models.Camera{
		Name:      req.Name,
		Location:  req.Location,
		Status:    models.CameraStatus(req.Status),
		StreamURL: req.StreamURL,
		Recording: req.Recording,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rs.cameraResponse(*camera))
}

func (rs *RestfulServer) UpdateCamera(c *gin.Context) {
	cameraID := c.Param("camera_id")

	var patch models.CameraPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camera, err := rs.Security.Camera.UpdateCamera(c.Request.Context(), cameraID, patch)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if camera.Status != models.CameraStatusOnline && rs.Live != nil {
		rs.Live.StopDetection(cameraID)
	}

	c.JSON(http.StatusOK, rs.cameraResponse(*camera))
}

func (rs *RestfulServer) DeleteCamera(c *gin.Context) {
	cameraID := c.Param("camera_id")

	if rs.Live != nil {
		rs.Live.StopDetection(cameraID)
	}
	if err := rs.Security.Camera.DeleteCamera(c.Request.Context(), cameraID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) ToggleRecording(c *gin.Context) {
	camera, err := rs.Security.Camera.ToggleRecording(c.Request.Context(), c.Param("camera_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.cameraResponse(*camera))
}

func (rs *RestfulServer) StartDetection(c *gin.Context) {
	cameraID := c.Param("camera_id")

	if err := rs.Live.StartDetection(c.Request.Context(), cameraID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"camera_id": cameraID, "detection_active": true})
}

func (rs *RestfulServer) StopDetection(c *gin.Context) {
	cameraID := c.Param("camera_id")

	rs.Live.StopDetection(cameraID)
	c.JSON(http.StatusOK, gin.H{"camera_id": cameraID, "detection_active": false})
}

func (rs *RestfulServer) GetSnapshot(c *gin.Context) {
	jpg, err := rs.Live.Snapshot(c.Param("camera_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", jpg)
}
