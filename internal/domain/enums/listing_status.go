package enums

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusInReview ListingStatus = "in_review"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
	ListingStatusHidden   ListingStatus = "hidden"
	ListingStatusExpired  ListingStatus = "expired"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusPending, ListingStatusInReview, ListingStatusApproved,
		ListingStatusRejected, ListingStatusHidden, ListingStatusExpired:
		return true
	default:
		return false
	}
}

type DealStatus string

const (
	DealStatusActive      DealStatus = "active"
	DealStatusNegotiating DealStatus = "negotiating"
	DealStatusSold        DealStatus = "sold"
	DealStatusRented      DealStatus = "rented"
	DealStatusArchived    DealStatus = "archived"
)

func (s DealStatus) Valid() bool {
	switch s {
	case DealStatusActive, DealStatusNegotiating, DealStatusSold, DealStatusRented, DealStatusArchived:
		return true
	default:
		return false
	}
}
