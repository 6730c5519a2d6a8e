package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/detection"
	"liyu1981.xyz/ai-security-service/pkg/security"
)

const MaxUploadSize = 100 << 20

func formInt(c *gin.Context, name string) (int, error) {
	raw := c.PostForm(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", security.ErrInvalidInput, name)
	}
	return v, nil
}

// uploadRequest reads the multipart file plus the optional video metadata. duration is in seconds.
func uploadRequest(c *gin.Context) (detection.UploadRequest, error) {
	var req detection.UploadRequest

	header, err := c.FormFile("file")
	if err != nil {
		return req, fmt.Errorf("%w: missing file", security.ErrInvalidInput)
	}
	if header.Size > MaxUploadSize {
		return req, fmt.Errorf("%w: file larger than %d bytes", security.ErrInvalidInput, MaxUploadSize)
	}

	f, err := header.Open()
	if err != nil {
		return req, err
	}
	defer f.Close()

	if req.Data, err = io.ReadAll(io.LimitReader(f, MaxUploadSize)); err != nil {
		return req, err
	}
	req.Name = header.Filename

	if raw := c.PostForm("duration"); raw != "" {
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil || secs < 0 {
			return req, fmt.Errorf("%w: duration must be a non-negative number of seconds", security.ErrInvalidInput)
		}
		req.Duration = time.Duration(secs * float64(time.Second))
	}
	if req.Width, err = formInt(c, "width"); err != nil {
		return req, err
	}
	if req.Height, err = formInt(c, "height"); err != nil {
		return req, err
	}
	if err := detection.CheckFrameSize(req.Width, req.Height); err != nil {
		return req, fmt.Errorf("%w: %w", security.ErrInvalidInput, err)
	}
	return req, nil
}

func (rs *RestfulServer) PostUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)

	req, err := uploadRequest(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := rs.Uploads.Process(c.Request.Context(), req, c.PostForm("camera_id"), nil)
	if err != nil {
		if result == nil {
			abortWithError(c, err)
			return
		}
		c.AbortWithStatusJSON(statusFor(err), result)
		return
	}
	c.JSON(http.StatusOK, result)
}
