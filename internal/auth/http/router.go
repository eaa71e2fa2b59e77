package http

import "github.com/gin-gonic/gin"

// Register mounts the auth endpoints. limit guards the credential
// endpoints against brute forcing.
func (h *Handler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/signup", limit, h.SignUp)
	rg.POST("/signin", limit, h.SignIn)
	rg.POST("/signout", h.SignOut)
	rg.GET("/session", h.Session)
}
