package models

// Notification is a user-facing message emitted by billing events
// (payment confirmed, premium granted, referral earning).
type Notification struct {
	BaseModel

	AccountID string `json:"account_id" gorm:"not null;size:64;index"`
	Title     string `json:"title" gorm:"size:120"`
	Message   string `json:"message" gorm:"type:text"`
	Metadata  string `json:"metadata" gorm:"type:text"` // JSON string
	IsRead    bool   `json:"is_read"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
