package access

import (
	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

var QueueCategories = []enums.Category{
	enums.CategoryListings,
	enums.CategoryReports,
	enums.CategoryComplaints,
}

// Guard is the single authorization point for every engine action.
type Guard struct {
	elevated map[enums.Role]struct{}
}

func NewGuard(elevated ...enums.Role) *Guard {
	if len(elevated) == 0 {
		elevated = enums.DefaultElevatedRoles()
	}
	set := make(map[enums.Role]struct{}, len(elevated))
	for _, role := range elevated {
		if role == enums.RoleNone || role == "" {
			continue
		}
		set[role] = struct{}{}
	}
	return &Guard{elevated: set}
}

// Authorize must run before the target entity is loaded so a denied caller
// learns nothing about whether it exists.
func (g *Guard) Authorize(operator model.Operator, action enums.Action) error {
	if !operator.Authenticated() {
		return errs.Unauthorized("authentication required")
	}
	if operator.Role == enums.RoleNone || operator.Role == "" {
		return errs.Forbidden("operator has no back office role")
	}
	if !action.Known() {
		return errs.Forbidden("action %q is not permitted", action)
	}
	if _, ok := g.elevated[operator.Role]; ok {
		return nil
	}
	if action == enums.ActionDashboardCounts {
		return nil
	}
	if operator.HasPermission(action.Category()) {
		return nil
	}
	return errs.Forbidden("action %q requires %q permission", action, action.Category())
}

// VisibleQueues returns the moderation queues the operator may read.
func (g *Guard) VisibleQueues(operator model.Operator) []enums.Category {
	out := make([]enums.Category, 0, len(QueueCategories))
	for _, category := range QueueCategories {
		action, ok := enums.ViewAction(category)
		if !ok {
			continue
		}
		if g.Authorize(operator, action) == nil {
			out = append(out, category)
		}
	}
	return out
}
