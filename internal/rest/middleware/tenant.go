package middleware

import (
	"context"

	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/gin-gonic/gin"
)

// TenantMiddleware resolves the tenant scope for the request. Every data
// operation downstream is filtered by the tenant id placed here.
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		c.Error(ierr.NewError("missing tenant header").
			WithHintf("The %s header is required", types.HeaderTenantID).
			Mark(ierr.ErrPermissionDenied))
		c.Abort()
		return
	}

	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, userID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
