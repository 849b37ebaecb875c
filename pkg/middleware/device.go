package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DeviceCookie holds the per-browser device id
	DeviceCookie = "apertif_device"
	// DeviceIDHeader lets non-browser clients supply their own device id
	DeviceIDHeader = "X-Device-ID"
	// DeviceIDKey is the context key for the device id
	DeviceIDKey = "device_id"

	deviceCookieTTL = 365 * 24 * time.Hour
	maxDeviceIDLen  = 128
)

// DeviceID identifies the calling device so RSVP markers can be scoped to it.
// It plays the role of browser local storage: the id is issued once and then
// sent back on every request by the cookie jar.
func DeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(DeviceIDHeader)
		if deviceID == "" {
			if cookie, err := c.Cookie(DeviceCookie); err == nil {
				deviceID = cookie
			}
		}
		if deviceID == "" || len(deviceID) > maxDeviceIDLen {
			deviceID = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Path:     "/",
				MaxAge:   int(deviceCookieTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(DeviceIDKey, deviceID)
		c.Header(DeviceIDHeader, deviceID)

		c.Next()
	}
}

// GetDeviceID returns the device id from context
func GetDeviceID(c *gin.Context) string {
	if id, exists := c.Get(DeviceIDKey); exists {
		if deviceID, ok := id.(string); ok {
			return deviceID
		}
	}
	return ""
}
