package infra

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm/internal/cache"
	"crm/internal/config"
	"crm/internal/errors"
	"crm/internal/handlers"
	"crm/internal/repository"
	"crm/internal/service"
	"crm/internal/validation"
)

// Router assembles the REST API application. redisClient is optional, the
// customer cache degrades to a no-op without it.
func Router(db *gorm.DB, redisClient *redis.Client, cfg config.APICfg) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	v, err := validation.NewEchoValidator()
	if err != nil {
		return nil, err
	}
	e.Validator = v
	e.HTTPErrorHandler = httpErrorHandler(e)

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{cfg.WebOrigin},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		ExposeHeaders: []string{handlers.HeaderTotalCount, handlers.HeaderPage, handlers.HeaderPageSize},
	}))

	// Caches
	customerCache := cache.NewNoopCustomerCache()
	if redisClient != nil {
		customerCache = cache.NewRedisCustomerCache(redisClient)
	}

	// Repositories
	customerRepo := repository.NewGormCustomerRepository(db)
	contactRepo := repository.NewGormContactRepository(db)
	opportunityRepo := repository.NewGormOpportunityRepository(db)

	// Services
	customerSvc := service.NewCustomerService(customerRepo, customerCache)
	contactSvc := service.NewContactService(contactRepo, customerRepo, customerCache)
	opportunitySvc := service.NewOpportunityService(opportunityRepo, customerRepo, customerCache)

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)
	contactHandler := handlers.NewContactHTTPHandler(contactSvc)
	opportunityHandler := handlers.NewOpportunityHTTPHandler(opportunitySvc)

	// API routes
	api := e.Group("/api")

	customersAPI := api.Group("/customers")
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.POST("", customerHandler.Post)
	customersAPI.PUT("/:id", customerHandler.Put)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID)

	contactsAPI := api.Group("/contacts")
	contactsAPI.GET("", contactHandler.GetAll)
	contactsAPI.GET("/:id", contactHandler.Get)
	contactsAPI.GET("/customer/:customerId", contactHandler.GetByCustomer)
	contactsAPI.POST("", contactHandler.Post)
	contactsAPI.PUT("/:id", contactHandler.Put)
	contactsAPI.DELETE("/:id", contactHandler.DeleteByID)

	opportunitiesAPI := api.Group("/opportunities")
	opportunitiesAPI.GET("", opportunityHandler.GetAll)
	opportunitiesAPI.GET("/stats", opportunityHandler.GetStats)
	opportunitiesAPI.GET("/:id", opportunityHandler.Get)
	opportunitiesAPI.GET("/customer/:customerId", opportunityHandler.GetByCustomer)
	opportunitiesAPI.POST("", opportunityHandler.Post)
	opportunitiesAPI.PUT("/:id", opportunityHandler.Put)
	opportunitiesAPI.DELETE("/:id", opportunityHandler.DeleteByID)

	return e, nil
}

// httpErrorHandler maps taxonomy errors to statuses: business rule and
// payload violations to 400, missing entries to 404, write races to 409.
// Anything else falls through to the echo default handler as a 500.
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			pldErr      *validation.PayloadError
			businessErr *errors.BusinessErr
			notFoundErr *errors.EntryNotFoundErr
			conflictErr *errors.ConflictErr
		)

		switch {
		case stderrors.As(err, &pldErr):
			err = c.JSON(http.StatusBadRequest, pldErr)
		case stderrors.As(err, &businessErr):
			err = c.JSON(http.StatusBadRequest, businessErr)
		case stderrors.As(err, &notFoundErr):
			err = c.JSON(http.StatusNotFound, echo.Map{"message": notFoundErr.Error()})
		case stderrors.As(err, &conflictErr):
			err = c.JSON(http.StatusConflict, echo.Map{"message": conflictErr.Error()})
		default:
			logrus.Errorf("request to %s failed - %s", c.Request().RequestURI, err)
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		if err != nil {
			logrus.Errorf("failed to write error response - %s", err)
		}
	}
}
