package startup

import (
	"cmp"
	"slices"
	"strings"

	"tsst-site/internal/logging"

	"github.com/gorilla/mux"
)

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes lists the routes of router that have a handler, one entry per
// method. Routes without a method matcher are reported with method "*".
// Subrouter mount points carry no handler and are left out.
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if route.GetHandler() == nil {
			return nil
		}
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: tpl, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the access log settings and, at debug level, every
// registered route grouped by its first path segment.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logSection("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		logRouteTable(router)
	}

	logging.Info("  HTTP logging enabled")
	logging.Info("    Static file logging:  %s", onOff(logStaticFiles, "LOG_STATIC_FILES=true"))
	logging.Info("    Health check logging: %s", onOff(logHealthChecks, "LOG_HEALTH_CHECKS=true"))
}

func logRouteTable(router *mux.Router) {
	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}

	slices.SortStableFunc(routes, func(a, b RouteInfo) int {
		return cmp.Compare(getRouteGroup(a.Path), getRouteGroup(b.Path))
	})

	logging.Debug("  Registered routes (%d total):", len(routes))
	group := "\x00"
	for _, r := range routes {
		if g := getRouteGroup(r.Path); g != group {
			group = g
			logging.Debug("")
			logging.Debug("  [%s]", cmp.Or(g, "root"))
		}
		logging.Debug("    %-6s %s", r.Method, r.Path)
	}
	logging.Debug("")
}

// getRouteGroup returns the first path segment of a route, or the first two
// for /api routes.
func getRouteGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		sub, _, _ := strings.Cut(rest, "/")
		return "api/" + sub
	}
	return first
}

func onOff(on bool, enable string) string {
	if on {
		return "ON"
	}
	return "OFF (set " + enable + " to enable)"
}
