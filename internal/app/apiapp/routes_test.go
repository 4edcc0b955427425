package apiapp

import (
	"strings"
	"testing"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/transport/http/handlers"
)

func TestAdminRoutesCoverEveryAction(t *testing.T) {
	routes := adminRoutes(
		handlers.NewListingsHandler(nil),
		handlers.NewReportsHandler(nil),
		handlers.NewComplaintsHandler(nil),
		handlers.NewDashboardHandler(nil, nil),
	)

	routed := make(map[enums.Action]int)
	seen := make(map[string]bool)
	for _, route := range routes {
		if !route.action.Known() {
			t.Fatalf("route %s %s uses unknown action %q", route.method, route.pattern, route.action)
		}
		key := route.method + " " + route.pattern
		if seen[key] {
			t.Fatalf("route %s registered twice", key)
		}
		seen[key] = true
		routed[route.action]++

		switch category := route.action.Category(); category {
		case enums.CategoryListings, enums.CategoryReports, enums.CategoryComplaints:
			if !strings.HasPrefix(route.pattern, "/"+string(category)) {
				t.Fatalf("route %s does not live under its category %s", key, category)
			}
		}
	}

	for _, action := range enums.Actions() {
		if routed[action] == 0 {
			t.Fatalf("action %q has no admin route", action)
		}
	}
}
