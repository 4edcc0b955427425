package rules

import "github.com/ivankudzin/estate-backoffice/internal/domain/enums"

type ListingTransition struct {
	From []enums.ListingStatus
	To   enums.ListingStatus
}

var listingTransitions = map[enums.Action]ListingTransition{
	enums.ActionListingApprove: {
		From: []enums.ListingStatus{enums.ListingStatusPending, enums.ListingStatusInReview, enums.ListingStatusRejected},
		To:   enums.ListingStatusApproved,
	},
	enums.ActionListingReject: {
		From: []enums.ListingStatus{enums.ListingStatusPending, enums.ListingStatusInReview},
		To:   enums.ListingStatusRejected,
	},
	enums.ActionListingReview: {
		From: []enums.ListingStatus{enums.ListingStatusPending},
		To:   enums.ListingStatusInReview,
	},
	enums.ActionListingHide: {
		From: []enums.ListingStatus{enums.ListingStatusApproved},
		To:   enums.ListingStatusHidden,
	},
	enums.ActionListingShow: {
		From: []enums.ListingStatus{enums.ListingStatusHidden},
		To:   enums.ListingStatusApproved,
	},
}

// DeletableListingStatuses lists every live status; deletion itself is the only terminal step.
var DeletableListingStatuses = []enums.ListingStatus{
	enums.ListingStatusPending,
	enums.ListingStatusInReview,
	enums.ListingStatusApproved,
	enums.ListingStatusRejected,
	enums.ListingStatusHidden,
	enums.ListingStatusExpired,
}

// DealEditableListingStatuses are the moderation statuses in which deal progress may change.
var DealEditableListingStatuses = []enums.ListingStatus{
	enums.ListingStatusApproved,
	enums.ListingStatusHidden,
}

func ListingTransitionFor(action enums.Action) (ListingTransition, bool) {
	t, ok := listingTransitions[action]
	return t, ok
}

func (t ListingTransition) Allows(from enums.ListingStatus) bool {
	return containsListing(t.From, from)
}

func CanEditDeal(status enums.ListingStatus) bool {
	return containsListing(DealEditableListingStatuses, status)
}

var dealTransitions = map[enums.DealStatus][]enums.DealStatus{
	enums.DealStatusActive: {
		enums.DealStatusNegotiating, enums.DealStatusSold, enums.DealStatusRented, enums.DealStatusArchived,
	},
	enums.DealStatusNegotiating: {
		enums.DealStatusActive, enums.DealStatusSold, enums.DealStatusRented, enums.DealStatusArchived,
	},
	enums.DealStatusSold:     {enums.DealStatusArchived},
	enums.DealStatusRented:   {enums.DealStatusArchived},
	enums.DealStatusArchived: {enums.DealStatusActive},
}

func DealTransitionAllowed(from, to enums.DealStatus) bool {
	for _, next := range dealTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OpenCaseStatuses are the report/complaint statuses an ordinary resolution starts from.
var OpenCaseStatuses = []enums.CaseStatus{enums.CaseStatusNew, enums.CaseStatusInReview}

func CaseIsOpen(status enums.CaseStatus) bool {
	for _, s := range OpenCaseStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func containsListing(list []enums.ListingStatus, status enums.ListingStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}
