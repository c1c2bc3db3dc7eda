package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
)

const headerActor = "X-Actor"

// AttachActor records the caller named by the gateway. Authorization happens
// upstream; this only labels audit entries.
func AttachActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(headerActor))
		if len(actor) > 120 {
			actor = actor[:120]
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{Actor: actor})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
