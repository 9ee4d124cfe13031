package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the handler funcs registered by the routes package.
type HandlerBundle struct {
	// Chat endpoints.
	HandleChat   gin.HandlerFunc
	ResetSession gin.HandlerFunc

	// Diagnostics.
	Health gin.HandlerFunc
}
