// services/access.go - Access control predicates
//
// Pure checks invoked by MatchService before any mutation. They hold no
// state and never mutate the session.
package services

import (
	"quizarena/models"
)

// CheckAccessCode reports whether supplied grants entry to the session.
// Public sessions admit anyone.
func CheckAccessCode(s *models.Session, supplied string) bool {
	if !s.IsPrivate {
		return true
	}
	return supplied != "" && supplied == s.AccessCode
}

// CheckOwnership reports whether userID is the session's creator.
func CheckOwnership(s *models.Session, userID uint) bool {
	return s.CreatorID == userID
}

// CheckCapacity reports whether the session can admit one more player.
func CheckCapacity(s *models.Session) bool {
	return len(s.Players) < s.MaxPlayers
}
