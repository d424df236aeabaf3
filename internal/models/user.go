package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile holds the investor's free-form preferences
type UserProfile struct {
	LocationPreference string `json:"location_preference"`
	PriceRange         string `json:"price_range"`
	InvestmentGoals    string `gorm:"type:text" json:"investment_goals"`
	FinancialCapacity  string `json:"financial_capacity"`
	TimeHorizon        string `json:"time_horizon"`
}

// User represents an investor
type User struct {
	ID        string      `gorm:"primaryKey;size:64" json:"id"`
	Name      string      `gorm:"not null" json:"name"`
	Email     *string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Avatar    string      `json:"avatar"`
	Role      string      `gorm:"default:member" json:"role"`
	Profile   UserProfile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasEmail returns true when reminders can be emailed to the user
func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Avatar  string      `json:"avatar"`
	Role    string      `json:"role"`
	Profile UserProfile `json:"profile"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Avatar:  u.Avatar,
		Role:    u.Role,
		Profile: u.Profile,
	}
}
