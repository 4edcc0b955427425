package enums

type EntityType string

const (
	EntityListing   EntityType = "listing"
	EntityReport    EntityType = "report"
	EntityComplaint EntityType = "complaint"
)
