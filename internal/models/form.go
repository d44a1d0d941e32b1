package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeText  QuestionType = "text"
	QuestionTypeMCQ   QuestionType = "mcq"
	QuestionTypeYesNo QuestionType = "yesno"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeMCQ, QuestionTypeYesNo:
		return true
	}
	return false
}

// Question is embedded in the form's jsonb column rather than stored as
// its own row. Questions are identified by their text, which is also how
// submitted answers refer back to them.
type Question struct {
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Options      []string     `json:"options,omitempty"`
	IsRequired   bool         `json:"isRequired"`
}

// FeedbackForm is the aggregate root of the system. A form becomes
// unavailable to respondents when IsActive is false or ExpiresAt has
// passed; expiry never mutates IsActive.
type FeedbackForm struct {
	ID          uuid.UUID                     `json:"id" gorm:"type:uuid;primaryKey"`
	AdminID     uuid.UUID                     `json:"adminId" gorm:"type:uuid;not null;index:idx_forms_admin_created,priority:1"`
	Title       string                        `json:"title" gorm:"size:50;not null"`
	Description string                        `json:"description" gorm:"size:200"`
	Questions   datatypes.JSONSlice[Question] `json:"questions" gorm:"type:jsonb"`
	IsActive    bool                          `json:"isActive" gorm:"not null;default:true"`
	ExpiresAt   *time.Time                    `json:"expiresAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_forms_admin_created,priority:2,sort:desc"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *FeedbackForm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (FeedbackForm) TableName() string {
	return "feedback_forms"
}

// IsExpired reports whether the form's deadline has passed at the given
// instant. Forms without a deadline never expire.
func (f *FeedbackForm) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && now.After(*f.ExpiresAt)
}

// AcceptsResponses reports whether a submission should be admitted.
func (f *FeedbackForm) AcceptsResponses(now time.Time) bool {
	return f.IsActive && !f.IsExpired(now)
}

// QuestionByText looks a question up by its identifying text.
func (f *FeedbackForm) QuestionByText(text string) (Question, bool) {
	for _, q := range f.Questions {
		if q.QuestionText == text {
			return q, true
		}
	}
	return Question{}, false
}
