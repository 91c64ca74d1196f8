package model

import "time"

const MaxDriverLevel = 3

var tierNames = map[int]string{
	1: "Silver",
	2: "Gold",
	3: "Diamond",
}

// TierName maps a numeric level to its display tier.
func TierName(level int) string {
	if name, ok := tierNames[level]; ok {
		return name
	}
	return "Silver"
}

type LevelProgress struct {
	Earnings float64 `json:"earnings"`
	Trips    float64 `json:"trips"`
	Rating   float64 `json:"rating"`
	Reviews  float64 `json:"reviews"`
	Goals    float64 `json:"goals"`
}

type DriverWithLevel struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	CurrentLevel   int           `json:"currentLevel"`
	TotalEarnings  float64       `json:"totalEarnings"`
	TotalTrips     int           `json:"totalTrips"`
	AverageRating  float64       `json:"averageRating"`
	TotalReviews   int           `json:"totalReviews"`
	GoalsCompleted int           `json:"goalsCompleted"`
	Progress       LevelProgress `json:"progress"`
	LevelBenefits  []string      `json:"levelBenefits"`
}

func (d DriverWithLevel) Tier() string {
	return TierName(d.CurrentLevel)
}

// OverallProgress is the mean of the five ratios, 100 at the top tier.
func (d DriverWithLevel) OverallProgress() float64 {
	if d.CurrentLevel >= MaxDriverLevel {
		return 100
	}
	p := d.Progress
	return ClampPercent(mean(p.Earnings, p.Trips, p.Rating, p.Reviews, p.Goals))
}

type MessageStatus string

const (
	MessagePending   MessageStatus = "PENDING"
	MessageResponded MessageStatus = "RESPONDED"
	MessageResolved  MessageStatus = "RESOLVED"
)

type DriverLevelMessage struct {
	ID        int64             `json:"id"`
	DriverID  int64             `json:"driverId"`
	Driver    *PersonRef        `json:"driver,omitempty"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Status    MessageStatus     `json:"status"`
	Responses []MessageResponse `json:"responses"`
	CreatedAt time.Time         `json:"createdAt"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	AdminID   int64     `json:"adminId"`
	AdminName string    `json:"adminName"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}
