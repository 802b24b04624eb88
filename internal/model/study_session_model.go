package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudySession is the persisted progress snapshot. Guide and ActiveQuiz are
// stored as JSON documents; they are opaque to the database.
type StudySession struct {
	Id    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	State string    `gorm:"type:varchar(32);not null;index"`

	Guide      datatypes.JSON `gorm:"type:jsonb"`
	ActiveQuiz datatypes.JSON `gorm:"type:jsonb"`

	ProcessingMessage string `gorm:"type:text"`
	LastError         string `gorm:"type:text"`
	BackgroundTopic   string `gorm:"type:varchar(128)"`
	SelectedModel     string `gorm:"type:varchar(64);not null"`

	ProcessingRunId *uuid.UUID `gorm:"type:uuid"`

	// No DeletedAt: a session row is recreated under the same id after a
	// reset, which a soft-deleted row would collide with.
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
