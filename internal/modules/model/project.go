package model

import "time"

// ReviewStatus is the evaluation state of a submitted project.
type ReviewStatus string

const (
	ReviewPending     ReviewStatus = "pending"
	ReviewUnderReview ReviewStatus = "under_review"
	ReviewApproved    ReviewStatus = "approved"
	ReviewRejected    ReviewStatus = "rejected"
)

// ValidReviewStatus reports whether s is a known review state.
func ValidReviewStatus(s ReviewStatus) bool {
	switch s {
	case ReviewPending, ReviewUnderReview, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Project is a proposal submitted against an edital. It is removed with the
// edital, but survives deletion of the submitting user.
type Project struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	EditalID uint  `gorm:"not null;index" json:"edital_id"`
	UserID   *uint `gorm:"index" json:"user_id"`

	Title   string       `gorm:"type:varchar(200);not null" json:"title"`
	Summary string       `gorm:"type:text" json:"summary"`
	Status  ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','under_review','approved','rejected')" json:"status"`
	Score   *float64     `gorm:"type:numeric(5,2)" json:"score"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Edital *Edital `gorm:"foreignKey:EditalID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }
