package handler

import (
	"net/http"
	"strings"
)

// Page types the router can render.
const (
	PagePublic  = "public"
	PageAdmin   = "admin"
	PageDisplay = "display"
	PagePoster  = "poster"
	PageReport  = "report"

	PageLinkNotFound = "linkNotFound"
	PageServerError  = "serverError"
)

// Renderer turns a page type and substitution vars into an HTML response.
// The browser-side app hydrates the shell; the gateway only stamps brand
// identity into it.
type Renderer interface {
	Render(page string, vars map[string]string) (int, string)
}

// ShellRenderer serves minimal HTML shells with {{VAR}} substitution.
type ShellRenderer struct{}

func NewShellRenderer() *ShellRenderer { return &ShellRenderer{} }

const appShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{APP_TITLE}}</title>
<link rel="icon" href="{{LOGO_URL}}">
</head>
<body data-brand="{{BRAND_ID}}" data-page="{{PAGE}}">
<div id="app"></div>
<script src="/assets/app.js" defer></script>
</body>
</html>
`

const linkNotFoundShell = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Link Not Found</title></head>
<body>
<h1>Link Not Found</h1>
<p>The link you followed does not exist or has expired.</p>
<p><a href="/">Back to {{APP_TITLE}}</a></p>
</body>
</html>
`

const serverErrorShell = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Something Went Wrong</title></head>
<body>
<h1>Something Went Wrong</h1>
<p>Please try again in a moment.</p>
<p><a href="/">Back to {{APP_TITLE}}</a></p>
</body>
</html>
`

func substitute(shell string, vars map[string]string) string {
	for k, v := range vars {
		shell = strings.ReplaceAll(shell, "{{"+k+"}}", v)
	}
	return shell
}

func (r *ShellRenderer) Render(page string, vars map[string]string) (int, string) {
	switch page {
	case PageLinkNotFound:
		return http.StatusNotFound, substitute(linkNotFoundShell, vars)
	case PageServerError:
		return http.StatusInternalServerError, substitute(serverErrorShell, vars)
	default:
		if vars == nil {
			vars = map[string]string{}
		}
		vars["PAGE"] = page
		return http.StatusOK, substitute(appShell, vars)
	}
}
