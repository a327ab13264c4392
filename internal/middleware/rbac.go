package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
	appErrors "github.com/matlalipitso/reporting-lwks-sub000/pkg/errors"
	"github.com/matlalipitso/reporting-lwks-sub000/pkg/response"
)

// Capability is a role predicate gating a group of routes.
type Capability func(models.Role) bool

// Route capabilities backed by the closed role type.
var (
	CanSubmitReport Capability = models.Role.CanSubmitReport
	CanReview       Capability = models.Role.CanReview
	CanRate         Capability = models.Role.CanRate
)

// Require aborts with 403 unless the caller's role satisfies capability.
// Services repeat the check; this keeps unauthorised traffic off handlers.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if capability == nil || !capability(claims.Role) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles admits only the listed roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return Require(func(role models.Role) bool {
		_, ok := allowed[role]
		return ok
	})
}
