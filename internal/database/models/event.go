package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Base
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	OrgID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"org_id"`
	CaseID *uuid.UUID `gorm:"type:uuid;index" json:"case_id,omitempty"`

	Title    string     `gorm:"not null" json:"title"`
	Type     string     `json:"type,omitempty"`
	StartsAt time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Location string     `json:"location,omitempty"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Org  *Org  `gorm:"foreignKey:OrgID" json:"-"`
	Case *Case `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
