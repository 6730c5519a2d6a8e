package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/auth"
	"liyu1981.xyz/ai-security-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *models.Account `json:"account"`
}

func sessionResponse(s *auth.Session) SessionResponse {
	return SessionResponse{
		Token:     s.Token(),
		ExpiresAt: s.ExpiresAt(),
		Account:   s.Account(),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginRequestSchema = z.Struct(z.Shape{
	"Email":    z.String().Trim().Email().Required(),
	"Password": z.String().Required(),
})

func (rs *RestfulServer) Login(c *gin.Context) {
	var req LoginRequest
	if err := loginRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	s := auth.NewSession()
	if !rs.Bridge.Login(c.Request.Context(), s, req.Email, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(s))
}

// RegisterRequest has no role: self-registered accounts are viewers unless their email is a
// configured admin email.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var registerRequestSchema = z.Struct(z.Shape{
	"Username": z.String().Trim().Min(3).Required(),
	"Email":    z.String().Trim().Email().Required(),
	"Password": z.String().Min(6).Required(),
})

func (rs *RestfulServer) Register(c *gin.Context) {
	var req RegisterRequest
	if err := registerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	s := auth.NewSession()
	if !rs.Bridge.Register(c.Request.Context(), s, req.Username, req.Email, req.Password) {
		c.JSON(http.StatusConflict, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(s))
}

func (rs *RestfulServer) Logout(c *gin.Context) {
	rs.Bridge.Logout(c.Request.Context(), auth.SessionFrom(c))
	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionResponse(auth.SessionFrom(c)))
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	clientID := c.Param("client_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(clientID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
