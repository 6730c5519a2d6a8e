package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/ai-security-service/pkg/auth"
	"liyu1981.xyz/ai-security-service/pkg/models"
	"liyu1981.xyz/ai-security-service/pkg/security"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

// refuseSelf rejects admin operations an admin may not apply to their own account.
func refuseSelf(c *gin.Context, targetID, action string) bool {
	if auth.SessionFrom(c).Account().ID != targetID {
		return false
	}
	abortWithError(c, fmt.Errorf("%w: cannot %s your own account", security.ErrInvalidInput, action))
	return true
}

func (rs *RestfulServer) ListUsers(c *gin.Context) {
	accounts, err := rs.Security.Account.ListAccounts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (rs *RestfulServer) ToggleUserStatus(c *gin.Context) {
	id := c.Param("id")
	if refuseSelf(c, id, "deactivate") {
		return
	}

	account, err := rs.Security.Account.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

type RoleRequest struct {
	Role string `json:"role"`
}

var roleRequestSchema = z.Struct(z.Shape{
	"Role": z.String().OneOf([]string{string(models.RoleAdmin), string(models.RoleViewer)}).Required(),
})

func (rs *RestfulServer) SetUserRole(c *gin.Context) {
	var req RoleRequest
	if err := roleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	account, err := rs.Security.Account.SetRole(c.Request.Context(), c.Param("id"), models.Role(req.Role))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (rs *RestfulServer) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if refuseSelf(c, id, "delete") {
		return
	}

	if err := rs.Security.Account.DeleteAccount(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
