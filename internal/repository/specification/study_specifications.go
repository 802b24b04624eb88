package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionId filters rows belonging to one study session
type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}
