// Package authz is the single source of truth for access decisions. Handlers
// and services never compare role strings themselves; they build a Resource
// and ask Authorize.
package authz

import (
	"github.com/civiclens/civic-lens-backend/internal/models"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleDepartment Role = "department"
)

type Action string

const (
	ActionCreateComplaint  Action = "create_complaint"
	ActionListOwnArea      Action = "list_own_area"
	ActionListJurisdiction Action = "list_jurisdiction"
	ActionVote             Action = "vote"
	ActionResolve          Action = "resolve"
	ActionComment          Action = "comment"
	ActionReadComments     Action = "read_comments"
	ActionReadProfile      Action = "read_profile"
	ActionUpdateProfile    Action = "update_profile"
)

// Reason explains a denial. Denials are always explicit; a failed check never
// silently no-ops.
type Reason string

const (
	ReasonWrongRole         Reason = "wrong_role"
	ReasonOutOfJurisdiction Reason = "out_of_jurisdiction"
	ReasonNotOwner          Reason = "not_owner"
)

// Claims is the verified identity of the caller, as carried by its token.
type Claims struct {
	AccountID  uuid.UUID
	Role       Role
	Username   string          // set for citizens
	Department models.Category // set for department accounts
	Pincode    string
}

// Resource describes the target of an action. Zero values are fine for
// actions that have no target (creating a complaint, listing a feed).
type Resource struct {
	Category      models.Category
	Pincode       string
	OwnerUsername string
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Authorize decides whether claims may perform action on res. It is a pure
// function: no I/O, and unknown actions are denied rather than defaulted.
func Authorize(claims Claims, action Action, res Resource) Decision {
	switch action {
	case ActionCreateComplaint, ActionListOwnArea, ActionVote, ActionComment:
		if claims.Role != RoleUser {
			return deny(ReasonWrongRole)
		}
		return allow()

	case ActionUpdateProfile:
		if claims.Role != RoleUser {
			return deny(ReasonWrongRole)
		}
		if res.OwnerUsername != "" && res.OwnerUsername != claims.Username {
			return deny(ReasonNotOwner)
		}
		return allow()

	case ActionListJurisdiction:
		if claims.Role != RoleDepartment {
			return deny(ReasonWrongRole)
		}
		return allow()

	case ActionResolve:
		if claims.Role != RoleDepartment {
			return deny(ReasonWrongRole)
		}
		if res.Category != claims.Department || res.Pincode != claims.Pincode {
			return deny(ReasonOutOfJurisdiction)
		}
		return allow()

	case ActionReadComments, ActionReadProfile:
		if claims.Role != RoleUser && claims.Role != RoleDepartment {
			return deny(ReasonWrongRole)
		}
		if res.OwnerUsername != "" && res.OwnerUsername != claims.Username {
			return deny(ReasonNotOwner)
		}
		return allow()

	default:
		return deny(ReasonWrongRole)
	}
}
