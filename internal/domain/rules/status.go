package rules

import (
	"sort"
	"strings"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
)

// Historical vocabularies seen in stored rows and in older admin clients.
var listingAliases = map[string]enums.ListingStatus{
	"pending":       enums.ListingStatusPending,
	"new":           enums.ListingStatusPending,
	"moderation":    enums.ListingStatusPending,
	"on_moderation": enums.ListingStatusPending,
	"waiting":       enums.ListingStatusPending,
	"draft_review":  enums.ListingStatusPending,

	"in_review":   enums.ListingStatusInReview,
	"review":      enums.ListingStatusInReview,
	"reviewing":   enums.ListingStatusInReview,
	"in_progress": enums.ListingStatusInReview,
	"processing":  enums.ListingStatusInReview,

	"approved":  enums.ListingStatusApproved,
	"accepted":  enums.ListingStatusApproved,
	"published": enums.ListingStatusApproved,
	"active":    enums.ListingStatusApproved,

	"rejected": enums.ListingStatusRejected,
	"declined": enums.ListingStatusRejected,
	"denied":   enums.ListingStatusRejected,

	"hidden":    enums.ListingStatusHidden,
	"blocked":   enums.ListingStatusHidden,
	"suspended": enums.ListingStatusHidden,
	"banned":    enums.ListingStatusHidden,

	"expired":  enums.ListingStatusExpired,
	"outdated": enums.ListingStatusExpired,
}

var caseAliases = map[string]enums.CaseStatus{
	"new":     enums.CaseStatusNew,
	"pending": enums.CaseStatusNew,
	"open":    enums.CaseStatusNew,
	"created": enums.CaseStatusNew,

	"in_review":   enums.CaseStatusInReview,
	"review":      enums.CaseStatusInReview,
	"reviewing":   enums.CaseStatusInReview,
	"in_progress": enums.CaseStatusInReview,
	"processing":  enums.CaseStatusInReview,

	"closed":   enums.CaseStatusClosed,
	"accepted": enums.CaseStatusClosed,
	"resolved": enums.CaseStatusClosed,
	"done":     enums.CaseStatusClosed,

	"dismissed": enums.CaseStatusDismissed,
	"rejected":  enums.CaseStatusDismissed,
	"declined":  enums.CaseStatusDismissed,
	"ignored":   enums.CaseStatusDismissed,
}

// Normalize maps a stored or inbound status to its canonical value for the
// entity type. Unknown values come back unchanged.
func Normalize(entity enums.EntityType, raw string) string {
	key := StatusKey(raw)
	switch entity {
	case enums.EntityListing:
		if canonical, ok := listingAliases[key]; ok {
			return string(canonical)
		}
	case enums.EntityReport, enums.EntityComplaint:
		if canonical, ok := caseAliases[key]; ok {
			return string(canonical)
		}
	}
	return raw
}

// StatusKey is the comparison form of a raw status. Alias lists hold keys, so
// storage filters must compare StatusKey(raw), or LOWER(TRIM(status)) in SQL.
func StatusKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MatchesAliases reports whether a stored raw status is one of the aliases.
func MatchesAliases(raw string, aliases []string) bool {
	key := StatusKey(raw)
	for _, a := range aliases {
		if a == key {
			return true
		}
	}
	return false
}

func NormalizeListingStatus(raw string) enums.ListingStatus {
	return enums.ListingStatus(Normalize(enums.EntityListing, raw))
}

func NormalizeCaseStatus(raw string) enums.CaseStatus {
	return enums.CaseStatus(Normalize(enums.EntityReport, raw))
}

// ListingAliases returns the status keys that normalize to one of the given
// statuses, sorted, for use in storage filters.
func ListingAliases(statuses ...enums.ListingStatus) []string {
	want := make(map[enums.ListingStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	out := make([]string, 0, len(statuses)*4)
	for raw, canonical := range listingAliases {
		if _, ok := want[canonical]; ok {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}

func CaseAliases(statuses ...enums.CaseStatus) []string {
	want := make(map[enums.CaseStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	out := make([]string, 0, len(statuses)*4)
	for raw, canonical := range caseAliases {
		if _, ok := want[canonical]; ok {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}
