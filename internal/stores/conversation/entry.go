package conversation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultConversationID groups entries when the caller does not name a
// conversation
const DefaultConversationID = "default"

// Role identifies which side of the conversation authored an entry
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole validates a role string from an API request
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoctor, RolePatient:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q (must be doctor or patient)", s)
}

// InputKind distinguishes typed messages from recorded speech
type InputKind string

const (
	InputText  InputKind = "text"
	InputAudio InputKind = "audio"
)

// ParseInputKind validates a message type string from an API request
func ParseInputKind(s string) (InputKind, error) {
	switch InputKind(s) {
	case InputText, InputAudio:
		return InputKind(s), nil
	}
	return "", fmt.Errorf("invalid message type %q (must be text or audio)", s)
}

// Entry is one persisted, enriched message within a conversation.
// CreatedAt marshals as RFC 3339, which keeps serialized timestamps in a
// sortable canonical form. Seq is assigned monotonically on insert
// (auto-increment in MySQL, a counter in memory); queries order on it to
// break equal timestamps by insertion order, which a random uuid ID
// cannot do.
type Entry struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey;not null"`
	Seq       uint64    `json:"-" gorm:"autoIncrement;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`

	ConversationID string    `json:"conversation_id" gorm:"size:255;index"`
	Role           Role      `json:"role" gorm:"size:32"`
	OriginalText   string    `json:"original_text" gorm:"type:text"`
	TranslatedText string    `json:"translated_text" gorm:"type:text"`
	Language       string    `json:"language" gorm:"size:16"`
	TargetLanguage string    `json:"target_language" gorm:"size:16"`
	Kind           InputKind `json:"message_type" gorm:"column:message_type;size:16"`
	AudioURL       string    `json:"audio_url,omitempty" gorm:"size:512"`
}

// TableName specifies the database table name for GORM
func (*Entry) TableName() string {
	return "messages"
}

// Draft carries the fields of an entry before the store assigns its
// identity and timestamp
type Draft struct {
	ConversationID string
	Role           Role
	OriginalText   string
	TranslatedText string
	Language       string
	TargetLanguage string
	Kind           InputKind
	AudioURL       string
}
