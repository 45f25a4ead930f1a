package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/internal/http/handlers"
	"github.com/IpsitaPrusty/smart-home-website/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ch *handlers.ConsentHandlers, ph *handlers.ParentalHandlers, dh *handlers.DeviceHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.POST("/otp/resend", ah.ResendOTP)

	// Consent and parental verification happen before the account can hold a
	// session, so these stay outside the JWT group.
	consent := r.Group("/consent")
	consent.POST("/items", ch.Items)
	consent.POST("/grant", ch.Grant)
	consent.POST("/complete", ch.Complete)
	consent.POST("/deny", ch.Deny)

	parental := r.Group("/parental")
	parental.POST("/info", ph.SubmitInfo)
	parental.POST("/verify", ph.Verify)
	parental.POST("/resend", ph.Resend)
	parental.POST("/abandon", ph.Abandon)
	parental.POST("/status", ph.Status)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.GET("/devices", dh.List)
	v.GET("/devices/:id/access", dh.Check)

	return r
}
