package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tourops-backend/controllers"
	"tourops-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the API surface the
// back-office frontend consumes.
func SetupRouter(
	ic *controllers.ItemController,
	cc *controllers.ContractController,
	bc *controllers.BookingController,
	pc *controllers.PoolController,
	vc *controllers.ConversionController,
	ac *controllers.AvailabilityController,
	ctc *controllers.CustomerController,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		items := api.Group("/items")
		{
			items.GET("", ic.GetItems)
			items.GET("/:id", ic.GetItemByID)
			items.POST("", ic.CreateItem)
			items.DELETE("/:id", ic.DeleteItem)
			items.POST("/:id/units", ic.AddUnit)
			items.DELETE("/:id/units/:unitId", ic.DeleteUnit)
			items.GET("/:id/availability", ac.ItemAvailability)
		}

		contracts := api.Group("/contracts")
		{
			contracts.GET("", cc.GetContracts)
			contracts.GET("/:id", cc.GetContractByID)
			contracts.POST("", cc.CreateContract)
			contracts.PATCH("/:id", cc.UpdateContract)
			contracts.PUT("/:id", cc.UpdateContract)
			contracts.DELETE("/:id", cc.DeleteContract)
			contracts.POST("/:id/allocations", cc.AddAllocation)
			contracts.POST("/:id/generate-rates", cc.GenerateRates)
		}

		rates := api.Group("/rates")
		{
			rates.GET("", controllers.GetRates)
			rates.POST("", controllers.CreateRate)
			rates.PATCH("/:id", controllers.UpdateRate)
			rates.DELETE("/:id", controllers.DeleteRate)
			rates.GET("/:id/availability", ac.RateAvailability)
			rates.GET("/:id/breakdown", controllers.RateBreakdown)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/:id", bc.GetBookingByID)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.DELETE("/:id", bc.DeleteBooking)
		}

		pools := api.Group("/pools")
		{
			pools.GET("", pc.GetPools)
			pools.POST("", pc.CreatePool)
			pools.GET("/:poolId", pc.GetPool)
			pools.PUT("/:poolId/capacity", pc.AdjustCapacity)
		}

		conversions := api.Group("/conversions")
		{
			conversions.GET("/candidates", vc.GetCandidates)
			conversions.POST("/convert", vc.ConvertBooking)
			conversions.GET("/history", vc.GetHistory)
		}

		customersRoutes := api.Group("/customers")
		{
			customersRoutes.GET("", ctc.GetCustomers)
			customersRoutes.POST("", ctc.CreateCustomer)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/agency", controllers.GetAgencySettings)
			settings.PUT("/agency", controllers.UpdateAgencySettings)
		}
	}

	return r
}
