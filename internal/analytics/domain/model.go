package domain

// CandidateMetric is the per-candidate row scored by the risk oracle.
type CandidateMetric struct {
	ID                string   `json:"id" validate:"required"`
	Name              string   `json:"name"`
	CohortName        string   `json:"cohortName,omitempty"`
	Sponsor           string   `json:"sponsor,omitempty"`
	TechnicalScore    float64  `json:"technicalScore" validate:"gte=0,lte=100"`
	SoftSkillScore    float64  `json:"softSkillScore" validate:"gte=0,lte=100"`
	Attendance        float64  `json:"attendance" validate:"gte=0,lte=100"`
	ProjectsCompleted int      `json:"projectsCompleted" validate:"gte=0"`
	RiskScore         *float64 `json:"riskScore,omitempty"`
	RiskLevel         string   `json:"riskLevel,omitempty"`
	AIAnalysis        string   `json:"aiAnalysis,omitempty"`
	ScoredAt          string   `json:"scoredAt,omitempty"`
}

// RiskAssessment is one element of the oracle's risk-scoring answer.
type RiskAssessment struct {
	ID         string  `json:"id" validate:"required"`
	RiskScore  float64 `json:"riskScore" validate:"gte=0,lte=100"`
	RiskLevel  string  `json:"riskLevel" validate:"oneof=Low Medium High"`
	AIAnalysis string  `json:"aiAnalysis"`
}

// DashboardStats are the four headline tiles; their meaning depends on role.
type DashboardStats struct {
	Stat1 string `json:"stat1"`
	Stat2 string `json:"stat2"`
	Stat3 string `json:"stat3"`
	Stat4 string `json:"stat4"`
}

// Unavailable is returned when the stats queries fail.
var Unavailable = DashboardStats{Stat1: "-", Stat2: "-", Stat3: "-", Stat4: "-"}
