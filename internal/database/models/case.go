package models

import "github.com/google/uuid"

type CaseStatus string

const (
	CaseStatusActive  CaseStatus = "active"
	CaseStatusPending CaseStatus = "pending"
	CaseStatusClosed  CaseStatus = "closed"
)

// ValidCaseStatus reports whether s is a known case status.
func ValidCaseStatus(s CaseStatus) bool {
	switch s {
	case CaseStatusActive, CaseStatusPending, CaseStatusClosed:
		return true
	}
	return false
}

type Case struct {
	Base
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrgID    uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`

	// CaseNumber is unique across the whole system, not per org.
	CaseNumber string     `gorm:"uniqueIndex;not null" json:"case_number"`
	Title      string     `gorm:"not null" json:"title"`
	Status     CaseStatus `gorm:"not null;default:'active'" json:"status"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Org    *Org    `gorm:"foreignKey:OrgID" json:"-"`
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Events []Event `gorm:"foreignKey:CaseID" json:"-"`
}

func (Case) TableName() string {
	return "cases"
}
