package types

import "time"

// Application lifecycle statuses.
const (
	StatusDraft       = "draft"
	StatusPending     = "pending"
	StatusUnderReview = "under_review"
	StatusEvaluated   = "evaluated"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"
)

// Reviewer invite statuses.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteRejected = "rejected"
)

// User roles.
const (
	RoleManager  = "manager"
	RoleReviewer = "reviewer"
	RoleStartup  = "startup"
)

// TeamMember is one entry of an application's team list. The list is stored
// as JSON text in the applications table and decoded at the data edge.
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Startup applications
type Application struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	FounderName  string `gorm:"size:128" json:"founderName"`
	FounderEmail string `gorm:"size:256;index" json:"founderEmail"`
	FounderPhone string `gorm:"size:32" json:"founderPhone"`
	StartupName  string `gorm:"size:128" json:"startupName"`
	Description  string `gorm:"type:text" json:"description"`
	Problem      string `gorm:"type:text" json:"problem"`
	Solution     string `gorm:"type:text" json:"solution"`
	TargetMarket string `gorm:"type:text" json:"targetMarket"`
	RevenueModel string `gorm:"type:text" json:"revenueModel"`
	Competition  string `gorm:"type:text" json:"competition"`
	TeamMembers  string `gorm:"type:json" json:"-"`
	Incorporated bool   `gorm:"default:false" json:"incorporated"`
	Status       string `gorm:"size:16;index;default:'draft'" json:"status"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`

	// Only meaningful while Status is draft; never serialized.
	ResumeTokenHash   *string    `gorm:"size:64;index" json:"-"`
	ResumeTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Assignments []ReviewerAssignment `gorm:"foreignKey:ApplicationID" json:"-"`
	Evaluations []Evaluation         `gorm:"foreignKey:ApplicationID" json:"-"`
}

// Team returns the decoded team member list.
func (a *Application) Team() []TeamMember {
	return DecodeTeamMembers(a.TeamMembers)
}

// Reviewer invitations, one row per (application, reviewer) pair.
type ReviewerAssignment struct {
	ID            uint64 `gorm:"primaryKey" json:"id"`
	ApplicationID string `gorm:"size:36;not null;uniqueIndex:idx_assignment_pair" json:"applicationId"`
	ReviewerID    string `gorm:"size:36;not null;uniqueIndex:idx_assignment_pair" json:"reviewerId"`
	InviteStatus  string `gorm:"size:16;not null;default:'pending'" json:"inviteStatus"`
	InvitedAt     time.Time  `json:"invitedAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	AssignedBy    string `gorm:"size:36;not null" json:"assignedBy"`

	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
	Reviewer    UserProfile `gorm:"foreignKey:ReviewerID" json:"-"`
}

// Scored assessments, one row per (application, reviewer) pair.
type Evaluation struct {
	ID            uint64 `gorm:"primaryKey" json:"id"`
	ApplicationID string `gorm:"size:36;not null;uniqueIndex:idx_evaluation_pair" json:"applicationId"`
	ReviewerID    string `gorm:"size:36;not null;uniqueIndex:idx_evaluation_pair" json:"reviewerId"`

	NeedScore        float64 `gorm:"type:decimal(4,2);not null" json:"needScore"`
	InnovationScore  float64 `gorm:"type:decimal(4,2);not null" json:"innovationScore"`
	MarketScore      float64 `gorm:"type:decimal(4,2);not null" json:"marketScore"`
	TeamScore        float64 `gorm:"type:decimal(4,2);not null" json:"teamScore"`
	ScalabilityScore float64 `gorm:"type:decimal(4,2);not null" json:"scalabilityScore"`

	NeedComment        string `gorm:"type:text" json:"needComment,omitempty"`
	InnovationComment  string `gorm:"type:text" json:"innovationComment,omitempty"`
	MarketComment      string `gorm:"type:text" json:"marketComment,omitempty"`
	TeamComment        string `gorm:"type:text" json:"teamComment,omitempty"`
	ScalabilityComment string `gorm:"type:text" json:"scalabilityComment,omitempty"`
	OverallComment     string `gorm:"type:text" json:"overallComment,omitempty"`

	// Always recomputed as the exact sum of the five scores on write.
	TotalScore float64 `gorm:"type:decimal(5,2);not null" json:"totalScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
	Reviewer    UserProfile `gorm:"foreignKey:ReviewerID" json:"-"`
}

// User accounts for managers, reviewers and startup founders.
type UserProfile struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Name  string `gorm:"size:128;not null" json:"name"`
	Email string `gorm:"size:256;unique;not null" json:"email"`
	Phone string `gorm:"size:32" json:"phone,omitempty"`
	Role  string `gorm:"size:16;not null;index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
