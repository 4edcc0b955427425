package enums

// CaseStatus is shared by reports and complaints.
type CaseStatus string

const (
	CaseStatusNew       CaseStatus = "new"
	CaseStatusInReview  CaseStatus = "in_review"
	CaseStatusClosed    CaseStatus = "closed"
	CaseStatusDismissed CaseStatus = "dismissed"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusNew, CaseStatusInReview, CaseStatusClosed, CaseStatusDismissed:
		return true
	default:
		return false
	}
}

type ListingAction string

const (
	ListingActionNone    ListingAction = "none"
	ListingActionHide    ListingAction = "hide"
	ListingActionDelete  ListingAction = "delete"
	ListingActionRestore ListingAction = "restore"
)

// ValidForClose reports whether the action may be requested through an ordinary close.
func (a ListingAction) ValidForClose() bool {
	switch a {
	case ListingActionNone, ListingActionHide, ListingActionDelete:
		return true
	default:
		return false
	}
}
