package feed

import (
	"time"

	"todokAPI/internal/types/challenge"
)

// Item is a point-in-time snapshot of a completed challenge. It does not
// reference the challenge, so later edits to the source never reach it.
type Item struct {
	ID             string             `json:"id"`
	ChallengeTitle string             `json:"challengeTitle"`
	Category       challenge.Category `json:"category"`
	Timestamp      time.Time          `json:"timestamp"`
	Cheers         int                `json:"cheers"`
	IsMine         bool               `json:"isMine"`
}

// ItemView is an Item as seen by one viewer.
type ItemView struct {
	Item
	CheeredByMe bool `json:"cheeredByMe"`
}
