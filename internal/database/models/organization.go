package models

import "github.com/google/uuid"

type Org struct {
	Base
	Name string `gorm:"not null" json:"name"`

	// Relationships
	Memberships []Membership `gorm:"foreignKey:OrgID" json:"-"`
	Clients     []Client     `gorm:"foreignKey:OrgID" json:"-"`
	Cases       []Case       `gorm:"foreignKey:OrgID" json:"-"`
	Events      []Event      `gorm:"foreignKey:OrgID" json:"-"`
}

func (Org) TableName() string {
	return "orgs"
}

type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleLawyer    Role = "lawyer"
	RoleAssistant Role = "assistant"
)

// ValidRole reports whether r is one of the known membership roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleLawyer, RoleAssistant:
		return true
	}
	return false
}

// Membership grants a user a role within a single org. A user holds at most
// one membership per org.
type Membership struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org" json:"user_id"`
	OrgID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_org" json:"org_id"`
	Role   Role      `gorm:"not null;default:'lawyer'" json:"role"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Org  *Org  `gorm:"foreignKey:OrgID" json:"org,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}
