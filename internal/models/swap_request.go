package models

import "time"

// SwapStatus represents the lifecycle state of a swap request.
type SwapStatus string

const (
	// SwapStatusPending indicates the request is awaiting the receiver's decision.
	SwapStatusPending SwapStatus = "pending"
	// SwapStatusAccepted indicates the receiver accepted the trade.
	SwapStatusAccepted SwapStatus = "accepted"
	// SwapStatusRejected indicates the receiver declined the trade.
	SwapStatusRejected SwapStatus = "rejected"
	// SwapStatusCompleted exists in the schema but has no entry transition;
	// the confirm-completion flow was never designed.
	SwapStatusCompleted SwapStatus = "completed"
)

// swapTransitions is the allowed-transition table. Anything not listed is
// rejected, including every transition into "completed".
var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapStatusPending: {SwapStatusAccepted, SwapStatusRejected},
}

// ValidSwapStatus reports whether s is a known status value.
func ValidSwapStatus(s SwapStatus) bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether the from → to status change is allowed.
func CanTransition(from, to SwapStatus) bool {
	for _, allowed := range swapTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SwapRequest is a proposal from one member to trade a specific offered
// skill for a specific desired skill with another member. Only the receiver
// may change the status; the sender has no cancel path.
type SwapRequest struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	SenderID         uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID       uint       `gorm:"not null;index" json:"receiver_id"`
	OfferedSkillID   uint       `gorm:"not null" json:"offered_skill_id"`
	RequestedSkillID uint       `gorm:"not null" json:"requested_skill_id"`
	Message          string     `gorm:"type:text" json:"message"`
	Status           SwapStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relationships
	Sender         User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver       User  `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	OfferedSkill   Skill `gorm:"foreignKey:OfferedSkillID" json:"offered_skill,omitempty"`
	RequestedSkill Skill `gorm:"foreignKey:RequestedSkillID" json:"requested_skill,omitempty"`
}

// TableName specifies the table name for GORM
func (SwapRequest) TableName() string {
	return "swap_requests"
}
