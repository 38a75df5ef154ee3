package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/services"
)

const (
	deviceIDHeader    = "X-Device-ID"
	tableNumberHeader = "X-Table-Number"
)

// IdentityMiddleware resolves the viewer identity for customer routes.
// Device IDs are opaque client-held strings; when a client arrives
// without one a fresh ID is issued and echoed back so the client can
// persist it. Missing parts degrade the identity rather than fail the
// request.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(deviceIDHeader)
		if deviceID == "" {
			deviceID = "device_" + uuid.NewString()
			c.Header(deviceIDHeader, deviceID)
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = models.UnknownIP
		}

		tableNumber := c.GetHeader(tableNumberHeader)
		if tableNumber == "" {
			tableNumber = c.Query("table")
		}
		if tableNumber != "" {
			// Orders store the normalized form ("07" -> "7"); the viewer
			// must carry the same form or table matching never fires.
			normalized, err := services.ValidateTableNumber(tableNumber)
			if err != nil {
				normalized = ""
			}
			tableNumber = normalized
		}

		c.Set("viewer", models.ViewerIdentity{
			DeviceID:    deviceID,
			ClientIP:    clientIP,
			TableNumber: tableNumber,
		})

		c.Next()
	}
}

// ViewerFromContext returns the identity set by IdentityMiddleware, or
// a degraded identity when the middleware did not run.
func ViewerFromContext(c *gin.Context) models.ViewerIdentity {
	if v, exists := c.Get("viewer"); exists {
		if viewer, ok := v.(models.ViewerIdentity); ok {
			return viewer
		}
	}
	return models.ViewerIdentity{ClientIP: models.UnknownIP}
}
