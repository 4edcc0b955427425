package enums

type ReportReason string

const (
	ReportReasonSpam        ReportReason = "spam"
	ReportReasonFraud       ReportReason = "fraud"
	ReportReasonWrongPrice  ReportReason = "wrong_price"
	ReportReasonWrongPhotos ReportReason = "wrong_photos"
	ReportReasonDuplicate   ReportReason = "duplicate"
	ReportReasonAlreadySold ReportReason = "already_sold"
	ReportReasonOffensive   ReportReason = "offensive"
	ReportReasonOther       ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonFraud, ReportReasonWrongPrice, ReportReasonWrongPhotos,
		ReportReasonDuplicate, ReportReasonAlreadySold, ReportReasonOffensive, ReportReasonOther:
		return true
	default:
		return false
	}
}
