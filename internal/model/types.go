// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Role identifies the user persona driving dashboards and chat context.
type Role string

// Closed set of roles. Chatbot-only variants from older accounts are
// normalized to their base role by ParseRole.
const (
	RoleStudent  Role = "student"
	RoleEngineer Role = "engineer"
	RoleMSME     Role = "msme"
	RoleGuest    Role = "guest"
)

// ParseRole normalizes a role string into the closed role set.
func ParseRole(s string) (Role, error) {
	switch s {
	case "student", "student-chatbot":
		return RoleStudent, nil
	case "engineer", "engineer-chatbot":
		return RoleEngineer, nil
	case "msme", "msme-chatbot":
		return RoleMSME, nil
	case "guest", "":
		return RoleGuest, nil
	default:
		return RoleGuest, fmt.Errorf("unknown role %q", s)
	}
}

// User is the account record returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MessageKind distinguishes user input from assistant replies.
type MessageKind string

// Message kinds.
const (
	MessageUser MessageKind = "user"
	MessageBot  MessageKind = "bot"
)

// Message is one entry of a chat transcript. Immutable once appended.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageKind `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Tools     []string    `json:"tools,omitempty"`
	Examples  []string    `json:"examples,omitempty"`
}

// Conversation is a saved chat transcript.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SpecLimits holds upper and lower specification limits.
// USL > LSL is not enforced; inverted limits follow the raw formulas.
type SpecLimits struct {
	USL float64
	LSL float64
}

// CapabilityResult holds descriptive statistics and capability indices.
// Cp and Cpk may be +Inf (zero-variance data inside the limits) but
// never NaN for non-empty input.
type CapabilityResult struct {
	Mean   float64
	StdDev float64
	Cp     float64
	Cpk    float64
}

// ROIInputs are the three monetary figures for the ROI calculator.
type ROIInputs struct {
	MonthlyDefectCost float64
	QualityInvestment float64
	ExpectedSavings   float64
}

// ROIResult is the derived ROI breakdown.
type ROIResult struct {
	ROI           float64
	PaybackMonths float64
	AnnualSavings float64
	NetBenefit    float64
}

// Metric is one quality metric as served by /quality-metrics.
type Metric struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
	Trend  string  `json:"trend"`
	Status string  `json:"status"`
}

// MetricsReport groups metrics the way the backend nests them.
type MetricsReport struct {
	Production []Metric `json:"production"`
	Quality    []Metric `json:"quality"`
	Cost       []Metric `json:"cost"`
	Time       []Metric `json:"time"`
}

// QuizQuestion is one multiple-choice question from the pool.
type QuizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correctAnswer"`
	Explanation string   `json:"explanation"`
	Category    string   `json:"category"`
}

// QuizAttempt records one completed quiz run.
type QuizAttempt struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	TimeTaken int    `json:"timeTaken"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
}

// Progress tracks per-user gamification counters.
type Progress struct {
	XP                 int `json:"xp"`
	Level              int `json:"level"`
	QuizzesTaken       int `json:"quizzesTaken"`
	ToolsViewed        int `json:"toolsViewed"`
	ConversationsSaved int `json:"conversationsSaved"`
}

// ImportResult is the response of the Excel/CSV import endpoint.
type ImportResult struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	ImportedRows int              `json:"imported_rows"`
	SampleData   []map[string]any `json:"sample_data"`
}
