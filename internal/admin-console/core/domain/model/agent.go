package model

import "time"

type AgentStatus string

const (
	AgentActive    AgentStatus = "ACTIVE"
	AgentInactive  AgentStatus = "INACTIVE"
	AgentSuspended AgentStatus = "SUSPENDED"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentActive, AgentInactive, AgentSuspended:
		return true
	}
	return false
}

type Agent struct {
	ID                     int64              `json:"id"`
	User                   *PersonRef         `json:"user,omitempty"`
	Status                 AgentStatus        `json:"status"`
	Level                  string             `json:"level"`
	EducationLevel         string             `json:"educationLevel"`
	Languages              []string           `json:"languages"`
	Specializations        []string           `json:"specializations"`
	AreasOfOperation       []string           `json:"areasOfOperation"`
	Bio                    string             `json:"bio"`
	YearsOfExperience      int                `json:"yearsOfExperience"`
	IsAvailable            bool               `json:"isAvailable"`
	CurrentActiveRequests  int                `json:"currentActiveRequests"`
	MaxActiveRequests      int                `json:"maxActiveRequests"`
	TotalCompletedRequests int                `json:"totalCompletedRequests"`
	AverageRating          float64            `json:"averageRating"`
	TotalReviews           int                `json:"totalReviews"`
	PromotionProgress      *PromotionProgress `json:"promotionProgress,omitempty"`
	AssignedPlanRequests   []PlanRequestRef   `json:"assignedPlanRequests"`
	CreatedAt              time.Time          `json:"createdAt"`
}

func (a Agent) Name() string {
	if a.User == nil {
		return ""
	}
	return a.User.Name
}

// WorkloadPercent is the share of the request budget in use. The backend owns the
// currentActiveRequests <= maxActiveRequests rule; this only renders it.
func (a Agent) WorkloadPercent() float64 {
	if a.MaxActiveRequests <= 0 {
		return 0
	}
	return ClampPercent(float64(a.CurrentActiveRequests) / float64(a.MaxActiveRequests) * 100)
}

// Promotion weights for the five progress components; they add up to 1.
const (
	WeightRequests   = 0.30
	WeightRating     = 0.25
	WeightReviews    = 0.15
	WeightRevenue    = 0.20
	WeightExperience = 0.10
)

type PromotionProgress struct {
	CurrentLevel         string  `json:"currentLevel"`
	NextLevel            string  `json:"nextLevel"`
	RequestsProgress     float64 `json:"requestsProgress"`
	RatingProgress       float64 `json:"ratingProgress"`
	ReviewsProgress      float64 `json:"reviewsProgress"`
	RevenueProgress      float64 `json:"revenueProgress"`
	ExperienceProgress   float64 `json:"experienceProgress"`
	OverallProgress      float64 `json:"overallProgress"`
	EligibleForPromotion bool    `json:"eligibleForPromotion"`
}

// Overall returns the server's overall value when present, otherwise the weighted
// mean of the components. The result is always within [0,100].
func (p PromotionProgress) Overall() float64 {
	if p.OverallProgress > 0 {
		return ClampPercent(p.OverallProgress)
	}
	return ClampPercent(
		ClampPercent(p.RequestsProgress)*WeightRequests +
			ClampPercent(p.RatingProgress)*WeightRating +
			ClampPercent(p.ReviewsProgress)*WeightReviews +
			ClampPercent(p.RevenueProgress)*WeightRevenue +
			ClampPercent(p.ExperienceProgress)*WeightExperience,
	)
}

type PlanRequestRef struct {
	ID          int64     `json:"id"`
	Role        string    `json:"role"`
	TripType    string    `json:"tripType"`
	Destination string    `json:"destinations"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PersonRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
