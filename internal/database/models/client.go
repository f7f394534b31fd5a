package models

import "github.com/google/uuid"

type Client struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrgID  uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	// Relationships
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Org   *Org   `gorm:"foreignKey:OrgID" json:"-"`
	Cases []Case `gorm:"foreignKey:ClientID" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}
