package model

import (
	"time"
)

// Status is the lifecycle state of an edital, recomputed from its dates.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// Edital is a published funding-opportunity announcement.
//
// The slug is assigned once from the title on first save and never changes
// afterwards, so public URLs stay stable across title edits.
type Edital struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`

	Title  string `gorm:"type:varchar(200);not null" json:"title"`
	Number string `gorm:"type:varchar(60);index" json:"number"`
	Entity string `gorm:"type:varchar(200)" json:"entity"`

	Objective   string `gorm:"type:text" json:"objective"`
	Eligibility string `gorm:"type:text" json:"eligibility"`
	Evaluation  string `gorm:"type:text" json:"evaluation"`
	Analysis    string `gorm:"type:text" json:"analysis"`
	Link        string `gorm:"type:varchar(500)" json:"link"`

	Status Status `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Display names of the acting users, "unknown" when unattributable.
	CreatedBy string `gorm:"type:varchar(150);not null;default:'unknown'" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(150);not null;default:'unknown'" json:"updated_by"`

	// Owned children, removed with the edital.
	Cronogramas []Cronograma  `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"cronogramas,omitempty"`
	Valores     []EditalValor `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"valores,omitempty"`
	Projects    []Project     `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"projects,omitempty"`
}

func (Edital) TableName() string { return "editais" }

// Cronograma is a named phase of an edital's timetable.
type Cronograma struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	EditalID uint   `gorm:"not null;index" json:"edital_id"`
	Name     string `gorm:"type:varchar(200);not null" json:"name"`

	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	PublishDate *time.Time `json:"publish_date"`

	Edital *Edital `gorm:"foreignKey:EditalID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Cronograma) TableName() string { return "cronogramas" }

// Currency codes accepted for edital values.
const (
	CurrencyBRL = "BRL"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// ValidCurrency reports whether code belongs to the closed currency set.
func ValidCurrency(code string) bool {
	switch code {
	case CurrencyBRL, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// EditalValor is a monetary amount attached to an edital.
type EditalValor struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	EditalID uint    `gorm:"not null;index" json:"edital_id"`
	Amount   float64 `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);not null;default:'BRL';check:currency IN ('BRL','USD','EUR')" json:"currency"`

	Edital *Edital `gorm:"foreignKey:EditalID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (EditalValor) TableName() string { return "edital_valores" }
