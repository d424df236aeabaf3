package models

import (
	"math"
	"time"
)

// ProgressStages tracks each purchase stage as an independent percentage (0-100)
type ProgressStages struct {
	KYC     int `gorm:"column:kyc" json:"kyc"`
	Funding int `json:"funding"`
	Legal   int `json:"legal"`
	Closing int `json:"closing"`
}

// Overall returns the rounded mean of the four stages
func (p ProgressStages) Overall() int {
	return int(math.Round(float64(p.KYC+p.Funding+p.Legal+p.Closing) / 4))
}

// Project represents a purchase group formed around one property
type Project struct {
	ID            string         `gorm:"primaryKey;size:64" json:"id"`
	PropertyID    string         `gorm:"size:64;not null;index" json:"property_id"`
	PropertyName  string         `json:"property_name"`
	PropertyImage string         `json:"property_image"`
	Progress      ProgressStages `gorm:"embedded;embeddedPrefix:progress_" json:"progress"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Associations
	Members          []User            `gorm:"many2many:project_members;" json:"members"`
	Units            []UnitAssignment  `gorm:"foreignKey:ProjectID" json:"units"`
	Documents        []Document        `gorm:"foreignKey:ProjectID" json:"documents"`
	Messages         []Message         `gorm:"foreignKey:ProjectID" json:"messages"`
	InstallmentPlans []InstallmentPlan `gorm:"foreignKey:ProjectID" json:"installment_plans,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// HasMember returns true if the user belongs to the project
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// UnitAssignment is one member's claimed share of a project
type UnitAssignment struct {
	ID        uint     `gorm:"primaryKey" json:"-"`
	ProjectID string   `gorm:"size:64;not null;uniqueIndex:idx_project_unit" json:"-"`
	UnitID    int      `gorm:"not null;uniqueIndex:idx_project_unit" json:"unit_id"`
	UserID    string   `gorm:"size:64;not null;index" json:"user_id"`
	Price     int64    `gorm:"not null" json:"price"`
	Size      *float64 `json:"size,omitempty"`
}

// TableName specifies the table name for UnitAssignment
func (UnitAssignment) TableName() string {
	return "unit_assignments"
}

// Document is a legal or funding document attached to a project
type Document struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ProjectID  string    `gorm:"size:64;not null;index" json:"-"`
	Name       string    `gorm:"not null" json:"name"`
	URL        string    `json:"url"`
	Status     string    `gorm:"default:pending" json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "project_documents"
}

// Message is a chat message posted in a project
type Message struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	ProjectID string    `gorm:"size:64;not null;index" json:"-"`
	UserID    string    `gorm:"size:64;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "project_messages"
}
