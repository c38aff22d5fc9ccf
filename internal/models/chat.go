package models

import "time"

// Chat represents a single chat exchange recorded by the n8n workflow.
// Rows are inserted by the workflow directly; this service only reads them.
type Chat struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID   string    `gorm:"column:session_id;index" json:"sessionId"`
	AIMessage   string    `gorm:"column:ai_message" json:"aiMessage"`
	UserMessage string    `gorm:"column:user_message" json:"userMessage"`
	Workflow    string    `gorm:"column:workflow" json:"workflow"`
	WorkflowID  string    `gorm:"column:workflow_id" json:"workflowId"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName keeps GORM pointed at the table the workflow writes into.
func (Chat) TableName() string {
	return "chats"
}
