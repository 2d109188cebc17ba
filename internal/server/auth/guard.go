package auth

import (
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Action is what a principal wants to do with a resource.
type Action uint8

const (
	ActionRead Action = iota + 1
	ActionWrite
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Reason tags why a Decision came out the way it did.
type Reason string

const (
	ReasonAdmin     Reason = "admin"
	ReasonRead      Reason = "read"
	ReasonOwner     Reason = "owner"
	ReasonForbidden Reason = "forbidden"
)

// Decision is the outcome of a single authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err is nil for an allow and common.ErrForbidden for a deny.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return common.ErrForbidden
}

var deny = Decision{Allowed: false, Reason: ReasonForbidden}

// CanMutate decides whether p may perform action on a resource owned by
// ownerID. Admins may do anything, any principal may read, and writes and
// deletes are limited to the owner. Unknown roles and actions are denied.
// It is a pure function.
func CanMutate(p Principal, ownerID string, action Action) Decision {
	switch p.Role {
	case models.RoleAdmin:
		if action == ActionRead || action == ActionWrite || action == ActionDelete {
			return Decision{Allowed: true, Reason: ReasonAdmin}
		}
		return deny
	case models.RoleUser:
	default:
		return deny
	}

	switch action {
	case ActionRead:
		return Decision{Allowed: true, Reason: ReasonRead}
	case ActionWrite, ActionDelete:
		if p.ID != "" && p.ID == ownerID {
			return Decision{Allowed: true, Reason: ReasonOwner}
		}
		return deny
	default:
		return deny
	}
}
