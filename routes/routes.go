package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booking-service/controllers"
)

// Register wires the booking flow and checkout endpoints onto the router.
func Register(r *gin.Engine, fc *controllers.FlowController, cc *controllers.CheckoutController) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/payment-methods", fc.ListPaymentMethods)

	flows := r.Group("/flows")
	{
		flows.POST("", fc.StartFlow)
		flows.GET("/:flowId", fc.GetFlow)
		flows.DELETE("/:flowId", fc.AbandonFlow)

		flows.POST("/:flowId/next", fc.Next)
		flows.POST("/:flowId/prev", fc.Prev)
		flows.PUT("/:flowId/details", fc.UpdateDetails)
		flows.GET("/:flowId/pricing", fc.GetPricing)
		flows.GET("/:flowId/processor", fc.GetProcessorHandle)

		flows.POST("/:flowId/participants", fc.AddParticipant)
		flows.PUT("/:flowId/participants/:participantId", fc.UpdateParticipant)
		flows.DELETE("/:flowId/participants/:participantId", fc.RemoveParticipant)

		flows.POST("/:flowId/checkout", cc.StartCheckout)
		flows.POST("/:flowId/capture", cc.CompleteCapture)
		flows.POST("/:flowId/confirm", cc.RetryConfirm)
	}
}
