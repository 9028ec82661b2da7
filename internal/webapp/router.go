package webapp

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"crm/internal/config"
	"crm/pkg/crmclient"
)

// Router assembles the server-rendered front-end application
func Router(cfg config.WebCfg) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.Use(middleware.Recover())

	api := crmclient.New(cfg.APIBaseURL, cfg.APITimeout)
	h := NewHandler(api)

	e.GET("/", h.Dashboard)

	e.GET("/customers", h.CustomersIndex)
	e.GET("/customers/new", h.CustomerNew)
	e.POST("/customers/new", h.CustomerCreate)
	e.GET("/customers/:id", h.CustomerDetails)
	e.GET("/customers/:id/edit", h.CustomerEdit)
	e.POST("/customers/:id/edit", h.CustomerUpdate)
	e.GET("/customers/:id/delete", h.CustomerDelete)
	e.POST("/customers/:id/delete", h.CustomerDestroy)

	e.GET("/contacts", h.ContactsIndex)
	e.GET("/opportunities", h.OpportunitiesIndex)

	return e, nil
}
