package model

import "github.com/ivankudzin/estate-backoffice/internal/domain/enums"

// Operator is the authenticated back office user as issued by the identity source.
type Operator struct {
	ID          int64
	Role        enums.Role
	Permissions []enums.Category
}

func (o Operator) Authenticated() bool {
	return o.ID > 0
}

func (o Operator) HasPermission(category enums.Category) bool {
	for _, p := range o.Permissions {
		if p == category {
			return true
		}
	}
	return false
}
