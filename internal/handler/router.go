package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTML alias table. Several paths map to the same page so old links and
// printed QR material keep working.
var htmlAliases = map[string]string{
	"/":         PagePublic,
	"/public":   PagePublic,
	"/events":   PagePublic,
	"/schedule": PagePublic,
	"/calendar": PagePublic,

	"/admin":     PageAdmin,
	"/manage":    PageAdmin,
	"/dashboard": PageAdmin,
	"/create":    PageAdmin,

	"/display": PageDisplay,
	"/tv":      PageDisplay,
	"/kiosk":   PageDisplay,
	"/screen":  PageDisplay,

	"/poster":  PagePoster,
	"/posters": PagePoster,
	"/flyers":  PagePoster,

	"/report":    PageReport,
	"/analytics": PageReport,
	"/reports":   PageReport,
	"/insights":  PageReport,
}

// Router owns the route table and the fallback error envelope.
type Router struct {
	api        *API
	adminToken string
	logger     *zap.Logger
	now        func() time.Time
}

// NewRouter builds the router around a handler set.
func NewRouter(api *API, adminToken string, logger *zap.Logger) *Router {
	return &Router{
		api:        api,
		adminToken: adminToken,
		logger:     logger,
		now:        time.Now,
	}
}

// Register wires middleware and the full route table onto e.
func (rt *Router) Register(e *echo.Echo) {
	e.Pre(BrandRewrite())
	e.Use(RequestID(), RouterVersion(), CORS())
	e.HTTPErrorHandler = rt.errorHandler

	guard := AdminGuard(rt.adminToken, rt.logger)

	for path, page := range htmlAliases {
		h := rt.api.HTMLPage(page)
		e.GET(path, h)
		e.HEAD(path, h)
	}

	e.GET("/api/status", rt.api.Status)
	e.GET("/api/health", rt.api.Health)
	e.GET("/api/events", rt.api.ListEvents)
	e.GET("/api/events/:id", rt.api.GetEvent)
	e.GET("/api/events/:id/publicBundle", rt.api.PublicBundle)
	e.GET("/api/events/:id/displayBundle", rt.api.DisplayBundle)
	e.GET("/api/events/:id/posterBundle", rt.api.PosterBundle)
	e.GET("/api/events/:id/adminBundle", rt.api.AdminBundle, guard)

	admin := e.Group("/api/admin", guard)
	admin.POST("/events", rt.api.CreateEvent)
	admin.POST("/events/:id/results", rt.api.RecordResult)
	admin.POST("/shortlinks", rt.api.CreateShortlink)

	e.POST("/api/analytics", rt.api.IngestAnalytics)

	e.GET("/r", rt.api.Shortlink)
	e.GET("/redirect", rt.api.Shortlink)
}

// routerEnvelope is the fallback shape for requests that never reached a
// handler: unknown paths, bad methods and panics surfaced by the recoverer.
type routerEnvelope struct {
	OK        bool   `json:"ok"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Path      string `json:"path,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (rt *Router) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal Server Error"
	path := ""

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch status {
		case http.StatusNotFound:
			message = "Not Found"
			path = c.Request().URL.Path
		case http.StatusMethodNotAllowed:
			message = "Method Not Allowed"
			path = c.Request().URL.Path
			c.Response().Header().Set("Allow", allowedMethodsHeader)
		default:
			if s, ok := he.Message.(string); ok {
				message = s
			}
		}
	}

	if status >= http.StatusInternalServerError {
		rt.logger.Error("unhandled request error",
			zap.String("path", c.Request().URL.Path),
			zap.Stack("stack"),
			zap.Error(err))
	}

	env := routerEnvelope{
		Status:    status,
		Error:     message,
		Path:      path,
		Timestamp: rt.now().UTC().Format(time.RFC3339),
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, env)
}
