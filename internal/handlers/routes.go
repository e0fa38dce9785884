package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/landbook/internal/logger"
	"github.com/stwalsh4118/landbook/internal/middleware"
	"github.com/stwalsh4118/landbook/internal/repository"
	"github.com/stwalsh4118/landbook/internal/services"
)

// API groups the handlers mounted under /api/v1.
type API struct {
	Places     *PlaceHandler
	People     *PersonHandler
	Deals      *DealHandler
	Properties *PropertyHandler
	Taxes      *TaxHandler
}

// NewAPI builds every service over store and wraps them in handlers.
func NewAPI(store repository.Store, log *logger.Logger) *API {
	return &API{
		Places: NewPlaceHandler(
			services.NewPlaceService(store.Places(), log),
			services.NewMillRateService(store, log),
		),
		People: NewPersonHandler(services.NewPersonService(store.People(), log)),
		Deals:  NewDealHandler(services.NewDealService(store, log)),
		Properties: NewPropertyHandler(
			services.NewPropertyService(store, log),
			services.NewValuationService(store, log),
			services.NewTaxPaymentService(store, log),
		),
		Taxes: NewTaxHandler(services.NewTaxService(store, log)),
	}
}

// Register mounts the public health routes and the authenticated API.
func Register(router *gin.Engine, health *HealthHandler, api *API, jwtSecret string) {
	useJSONFieldNames()

	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)
	router.GET("/api/v1/info", health.Info)

	v1 := router.Group("/api/v1", middleware.Auth(jwtSecret))
	{
		places := v1.Group("/places")
		{
			places.GET("", api.Places.List)
			places.POST("", api.Places.Create)
			places.GET("/:id", api.Places.Get)
			places.PUT("/:id", api.Places.Update)
			places.DELETE("/:id", api.Places.Delete)
			places.GET("/:id/mill-rates", api.Places.ListMillRates)
			places.POST("/:id/mill-rates", api.Places.AddMillRate)
			places.PUT("/:id/mill-rates/:millRateId", api.Places.UpdateMillRate)
			places.DELETE("/:id/mill-rates/:millRateId", api.Places.DeleteMillRate)
		}

		people := v1.Group("/people")
		{
			people.GET("", api.People.List)
			people.POST("", api.People.Create)
			people.GET("/:id", api.People.Get)
			people.PUT("/:id", api.People.Update)
			people.DELETE("/:id", api.People.Delete)
		}

		deals := v1.Group("/deals")
		{
			deals.GET("", api.Deals.List)
			deals.POST("", api.Deals.Create)
			deals.GET("/:id", api.Deals.Get)
			deals.PUT("/:id", api.Deals.Update)
			deals.DELETE("/:id", api.Deals.Delete)
			deals.POST("/:id/promote", api.Deals.Promote)
		}

		properties := v1.Group("/properties")
		{
			properties.GET("", api.Properties.List)
			properties.POST("", api.Properties.Create)
			properties.GET("/:id", api.Properties.Get)
			properties.PUT("/:id", api.Properties.Update)
			properties.DELETE("/:id", api.Properties.Delete)
			properties.GET("/:id/valuations", api.Properties.ListValuations)
			properties.POST("/:id/valuations", api.Properties.AddValuation)
			properties.PUT("/:id/valuations/:valuationId", api.Properties.UpdateValuation)
			properties.DELETE("/:id/valuations/:valuationId", api.Properties.DeleteValuation)
			properties.GET("/:id/tax-payments", api.Properties.ListTaxPayments)
			properties.POST("/:id/tax-payments", api.Properties.AddTaxPayment)
			properties.PUT("/:id/tax-payments/:paymentId", api.Properties.UpdateTaxPayment)
			properties.DELETE("/:id/tax-payments/:paymentId", api.Properties.DeleteTaxPayment)
			properties.GET("/:id/taxes", api.Taxes.PropertyHistory)
		}

		v1.GET("/taxes", api.Taxes.Summary)
	}
}
