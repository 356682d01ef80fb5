package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/server/middlewares"
	"github.com/mdouchement/itemstore/internal/server/service"
	"github.com/sirupsen/logrus"
)

// DefaultHeartbeat is the period of the keep-alive comments sent on idle live queries.
const DefaultHeartbeat = 15 * time.Second

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version  string
	Database database.Client
	Logger   logrus.FieldLogger
	// APIToken, when defined, is required as bearer token on every item route.
	APIToken string
	// Heartbeat is the keep-alive period of live queries.
	Heartbeat time.Duration
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}
	if ctrl.Heartbeat <= 0 {
		ctrl.Heartbeat = DefaultHeartbeat
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Streamed responses must not be buffered by the compressor.
			return strings.HasSuffix(c.Path(), "/listen")
		},
	}))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(ctrl.Logger)

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	router := engine.Group("")
	restricted := router.Group("")
	if ctrl.APIToken != "" {
		restricted.Use(middlewares.Token(ctrl.APIToken))
	}

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// item handlers
	//
	item := &item{
		items:     service.NewItems(ctrl.Database, service.NewFeed()),
		log:       ctrl.Logger,
		heartbeat: ctrl.Heartbeat,
	}
	restricted.GET("/items", item.List)
	restricted.POST("/items", item.Create)
	restricted.GET("/items/listen", item.Listen)
	restricted.GET("/items/:id", item.Show)
	restricted.PATCH("/items/:id", item.Patch)
	restricted.DELETE("/items/:id", item.Delete)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
