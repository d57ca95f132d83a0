package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HistoryAction is the kind of mutation an audit entry records.
type HistoryAction string

const (
	ActionCreate HistoryAction = "create"
	ActionUpdate HistoryAction = "update"
	ActionDelete HistoryAction = "delete"
)

// EditalHistory is an append-only audit entry. It survives deletion of the
// edital it describes (the reference is cleared, the title stays captured)
// and deletion of the acting user.
type EditalHistory struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	EditalID    *uint  `gorm:"index" json:"edital_id"`
	EditalTitle string `gorm:"type:varchar(200);not null" json:"edital_title"`

	UserID   *uint  `gorm:"index" json:"user_id"`
	UserName string `gorm:"type:varchar(150);not null;default:'unknown'" json:"user_name"`

	Action HistoryAction `gorm:"type:varchar(10);not null;check:action IN ('create','update','delete')" json:"action"`

	// Field-level summary of what changed, {"field": {"from": ..., "to": ...}}.
	Changes datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"changes"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Edital *Edital `gorm:"foreignKey:EditalID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (EditalHistory) TableName() string { return "edital_history" }
