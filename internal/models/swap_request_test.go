package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    SwapStatus
		to      SwapStatus
		allowed bool
	}{
		{"pending to accepted", SwapStatusPending, SwapStatusAccepted, true},
		{"pending to rejected", SwapStatusPending, SwapStatusRejected, true},
		{"pending to completed", SwapStatusPending, SwapStatusCompleted, false},
		{"pending to pending", SwapStatusPending, SwapStatusPending, false},
		{"accepted to rejected", SwapStatusAccepted, SwapStatusRejected, false},
		{"accepted to completed", SwapStatusAccepted, SwapStatusCompleted, false},
		{"rejected to accepted", SwapStatusRejected, SwapStatusAccepted, false},
		{"completed to anything", SwapStatusCompleted, SwapStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidSwapStatus(t *testing.T) {
	for _, s := range []SwapStatus{SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCompleted} {
		assert.True(t, ValidSwapStatus(s), string(s))
	}
	assert.False(t, ValidSwapStatus("cancelled"))
	assert.False(t, ValidSwapStatus(""))
	assert.False(t, ValidSwapStatus("Pending"))
}

func TestValidAvailability(t *testing.T) {
	for _, a := range Availabilities {
		assert.True(t, ValidAvailability(a), string(a))
	}
	assert.False(t, ValidAvailability("Weekends"))
	assert.False(t, ValidAvailability(""))
}

func TestOffersSkill(t *testing.T) {
	user := &User{SkillsOffered: []Skill{{Name: "Guitar"}, {Name: "Spanish"}}}

	assert.True(t, user.OffersSkill("Guitar"))
	assert.False(t, user.OffersSkill("guitar"), "matching is exact")
	assert.False(t, user.OffersSkill("Piano"))
}
