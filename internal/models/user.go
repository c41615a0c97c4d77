// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Availability labels a member's scheduling preference for skill exchanges.
type Availability string

const (
	AvailabilityNow      Availability = "Available Now"
	AvailabilityThisWeek Availability = "This Week"
	AvailabilityNextWeek Availability = "Next Week"
	AvailabilityFlexible Availability = "Flexible"
	AvailabilityWeekends Availability = "Weekends Only"
)

// Availabilities is the canonical set of availability tags.
var Availabilities = []Availability{
	AvailabilityNow,
	AvailabilityThisWeek,
	AvailabilityNextWeek,
	AvailabilityFlexible,
	AvailabilityWeekends,
}

// ValidAvailability reports whether tag is one of the canonical availability values.
func ValidAvailability(tag Availability) bool {
	for _, a := range Availabilities {
		if a == tag {
			return true
		}
	}
	return false
}

// User represents a SkillSwap member.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Email        string       `gorm:"unique;not null" json:"email"`
	Password     string       `gorm:"not null" json:"-"`
	Location     string       `json:"location"`
	Availability Availability `gorm:"type:varchar(32);default:'Flexible'" json:"availability"`
	IsPublic     bool         `gorm:"default:true" json:"is_public"`
	Rating       float64      `gorm:"default:0" json:"rating"`
	IsAdmin      bool         `gorm:"default:false" json:"is_admin"`
	IsBanned     bool         `gorm:"default:false" json:"is_banned"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	SkillsOffered []Skill `gorm:"many2many:user_skills_offered" json:"skills_offered"`
	SkillsWanted  []Skill `gorm:"many2many:user_skills_wanted" json:"skills_wanted"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// OffersSkill reports whether the user currently lists the named skill
// in their offered set. Matching is exact.
func (u *User) OffersSkill(name string) bool {
	for _, s := range u.SkillsOffered {
		if s.Name == name {
			return true
		}
	}
	return false
}

// UserSummary is the counterpart identity embedded in swap request listings.
// Exposing the email here is a known privacy gap kept for client
// compatibility; callers already require authentication.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the public identity fields of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
