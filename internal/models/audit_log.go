package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `gorm:"index" json:"clinic_id"`
	Actor    string `gorm:"size:100" json:"actor"`
	Action   string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50;index:idx_audit_logs_entity" json:"entity"`
	EntityID *uint  `gorm:"index:idx_audit_logs_entity" json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
