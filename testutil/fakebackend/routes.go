package fakebackend

import (
	"github.com/gin-gonic/gin"
)

func (b *Backend) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(b.recovery(), b.observe(), b.injectFaults())

	r.POST("/signup", b.signup)
	r.POST("/login", b.login)
	r.GET("/auth/:provider", b.oauthURL)
	r.GET("/oauth/:provider/callback", b.oauthCallback)
	r.GET("/shopping-requests", b.listRequests)
	r.GET("/locations/suggestions", b.suggestLocations)
	r.POST("/analytics/track", b.track)

	authed := r.Group("", b.requireSession())
	authed.GET("/user-profile/:id", b.getProfile)
	authed.PUT("/user-profile/:id", b.updateProfile)
	authed.POST("/user-profile/:id/avatar", b.uploadAvatar)

	authed.POST("/shopping-requests", b.createRequest)
	authed.GET("/my-shopping-requests/:userId", b.listRequestsByUser)
	authed.POST("/shopping-requests/:id/purchase-proof", b.uploadProof("purchase"))
	authed.POST("/shopping-requests/:id/delivery-proof", b.uploadProof("delivery"))

	authed.POST("/travel-itineraries", b.createItinerary)
	authed.PATCH("/travel-itineraries/:id", b.updateItinerary)
	authed.GET("/travel-itineraries/user/:userId", b.listItinerariesByUser)
	authed.GET("/suggest-travelers/:requestId", b.suggestTravelers)

	authed.POST("/matches", b.createMatch)
	authed.POST("/accept-request", b.acceptRequest)
	authed.POST("/confirm-delivery", b.confirmDelivery)

	authed.POST("/create-payment", b.createPayment)
	authed.POST("/capture-payment", b.capturePayment)
	authed.POST("/auto-release-payment", b.autoRelease)
	authed.GET("/user-transactions/:userId", b.listTransactions)

	authed.GET("/notifications/:userId", b.listNotifications)
	authed.POST("/kyc", b.uploadKYC)
	authed.POST("/raise-dispute", b.raiseDispute)

	admin := authed.Group("/admin", b.requireAdmin())
	admin.GET("/disputes", b.listDisputes)
	admin.POST("/resolve-dispute", b.resolveDispute)
	admin.GET("/kyc-pending", b.listPendingKYC)
	admin.POST("/review-kyc", b.reviewKYC)

	return r
}
