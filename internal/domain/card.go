package domain

import "time"

// CardType enumerates the transit fare categories.
type CardType string

const (
	CardTypeCommon  CardType = "COMMON"
	CardTypeStudent CardType = "STUDENT"
	CardTypeWorker  CardType = "WORKER"
)

// ValidCardType reports whether t is a known fare category.
func ValidCardType(t CardType) bool {
	switch t {
	case CardTypeCommon, CardTypeStudent, CardTypeWorker:
		return true
	}
	return false
}

// Card is a transit card owned by a user. Number is unique per owner.
type Card struct {
	ID         string
	Number     string
	HolderName string
	Active     bool
	Type       CardType
	UserID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
