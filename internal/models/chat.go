package models

// ChatMessage is one tutoring turn: the student's question and the tutor's
// answer. The free quota is derived from counting these rows across every
// account sharing a phone number; it is never stored as a counter.
type ChatMessage struct {
	BaseModel

	AccountID string `json:"account_id" gorm:"not null;size:64;index"`
	Message   string `json:"message" gorm:"type:text"`
	Response  string `json:"response" gorm:"type:text"`

	Grade   string `json:"grade" gorm:"size:40"`
	Domain  string `json:"domain" gorm:"size:60"`
	Subject string `json:"subject" gorm:"size:60"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
