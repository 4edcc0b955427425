package enums

import (
	"sort"
	"strings"
)

// Category is also the permission key an operator needs for actions in it.
type Category string

const (
	CategoryListings   Category = "listings"
	CategoryReports    Category = "reports"
	CategoryComplaints Category = "complaints"
	CategoryUsers      Category = "users"
	CategoryFinance    Category = "finance"
	CategoryAudit      Category = "audit"
	CategoryDashboard  Category = "dashboard"
)

type Action string

const (
	ActionListingView       Action = "listings.view"
	ActionListingApprove    Action = "listings.approve"
	ActionListingReject     Action = "listings.reject"
	ActionListingReview     Action = "listings.review"
	ActionListingHide       Action = "listings.hide"
	ActionListingShow       Action = "listings.show"
	ActionListingDelete     Action = "listings.delete"
	ActionListingDealStatus Action = "listings.deal_status"

	ActionReportView        Action = "reports.view"
	ActionReportReview      Action = "reports.review"
	ActionReportDismiss     Action = "reports.dismiss"
	ActionReportClose       Action = "reports.close"
	ActionReportRestore     Action = "reports.restore"
	ActionReportDeleteFinal Action = "reports.delete_final"

	ActionComplaintView    Action = "complaints.view"
	ActionComplaintReview  Action = "complaints.review"
	ActionComplaintDismiss Action = "complaints.dismiss"
	ActionComplaintClose   Action = "complaints.close"

	ActionAuditView       Action = "audit.view"
	ActionDashboardCounts Action = "dashboard.counts"
)

var knownActions = map[Action]struct{}{
	ActionListingView: {}, ActionListingApprove: {}, ActionListingReject: {}, ActionListingReview: {},
	ActionListingHide: {}, ActionListingShow: {}, ActionListingDelete: {}, ActionListingDealStatus: {},
	ActionReportView: {}, ActionReportReview: {}, ActionReportDismiss: {}, ActionReportClose: {},
	ActionReportRestore: {}, ActionReportDeleteFinal: {},
	ActionComplaintView: {}, ActionComplaintReview: {}, ActionComplaintDismiss: {}, ActionComplaintClose: {},
	ActionAuditView: {}, ActionDashboardCounts: {},
}

// Actions lists every known action in a stable order.
func Actions() []Action {
	out := make([]Action, 0, len(knownActions))
	for a := range knownActions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

func (a Action) Category() Category {
	prefix, _, _ := strings.Cut(string(a), ".")
	return Category(prefix)
}

// ViewAction returns the read action for a queue category.
func ViewAction(category Category) (Action, bool) {
	switch category {
	case CategoryListings:
		return ActionListingView, true
	case CategoryReports:
		return ActionReportView, true
	case CategoryComplaints:
		return ActionComplaintView, true
	default:
		return "", false
	}
}
