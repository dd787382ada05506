package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/brand"
)

// Version is stamped into the X-Router-Version response header.
const Version = "1.4.0"

const (
	headerRouterVersion  = "X-Router-Version"
	headerRequestID      = echo.HeaderXRequestID
	brandContextKey      = "brandId"
	legacyAdminKeyParam  = "adminKey"
	corsMaxAgeSeconds    = 86400
	allowedMethodsHeader = "GET, POST, PUT, DELETE, OPTIONS"
)

// RequestID prefers the upstream request id header and generates one
// otherwise, echoing it back on the response.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RouterVersion stamps the version header on every response.
func RouterVersion() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(headerRouterVersion, Version)
			return next(c)
		}
	}
}

// CORS allows any origin on the API surface and answers preflights with
// 204 and a one-day max age.
func CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		MaxAge:       corsMaxAgeSeconds,
	})
}

// BrandRewrite normalizes the path and pulls the brand prefix out of it
// before routing: trailing slashes are stripped, a leading brand segment is
// consumed into context, the legacy ?p=r query form is rewritten to /r, and
// an explicit ?brand= parameter overrides the path-derived brand.
//
// Registered with e.Pre so it runs before route matching.
func BrandRewrite() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if len(path) > 1 {
				path = strings.TrimRight(path, "/")
				if path == "" {
					path = "/"
				}
			}

			if p := c.QueryParam("p"); p == "r" || p == "redirect" {
				path = "/r"
			}

			trimmed := strings.TrimPrefix(path, "/")
			if seg, rest, _ := strings.Cut(trimmed, "/"); brand.IsValid(seg) {
				c.Set(brandContextKey, seg)
				path = "/" + rest
			}
			if q := c.QueryParam("brand"); brand.IsValid(q) {
				c.Set(brandContextKey, q)
			}

			req.URL.Path = path
			return next(c)
		}
	}
}

// selectedBrand reports the brand the request explicitly named, through the
// path prefix or the ?brand= override. Requests without either carry none.
func selectedBrand(c echo.Context) (string, bool) {
	s, ok := c.Get(brandContextKey).(string)
	return s, ok
}

// brandID returns the brand selected by BrandRewrite, defaulting to Root.
func brandID(c echo.Context) string {
	if s, ok := selectedBrand(c); ok {
		return s
	}
	return brand.Root
}

// AdminGuard protects the admin surface with the shared bearer token. An
// empty configured token passes everything (development mode); the caller
// is responsible for warning about that at startup.
func AdminGuard(adminToken string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminToken == "" {
				return next(c)
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if tok, ok := strings.CutPrefix(auth, "Bearer "); ok && tok == adminToken {
				return next(c)
			}
			if c.QueryParam(legacyAdminKeyParam) == adminToken {
				return next(c)
			}
			logger.Debug("admin auth rejected", zap.String("path", c.Request().URL.Path))
			return c.JSON(http.StatusUnauthorized, errorEnvelope{
				OK:      false,
				Code:    CodeUnauthorized,
				Message: "Missing or invalid authentication",
				Status:  http.StatusUnauthorized,
			})
		}
	}
}
