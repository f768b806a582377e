package domain

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

type FeatureStatus string

const (
	StatusIdea          FeatureStatus = "idea"
	StatusSpecification FeatureStatus = "specification"
	StatusDevelopment   FeatureStatus = "development"
	StatusTesting       FeatureStatus = "testing"
	StatusLive          FeatureStatus = "live"
)

// statusFlow is the linear workflow a feature advances through.
var statusFlow = []FeatureStatus{
	StatusIdea,
	StatusSpecification,
	StatusDevelopment,
	StatusTesting,
	StatusLive,
}

// ValidFeatureStatuses is the canonical set of accepted status strings.
var ValidFeatureStatuses = map[string]bool{
	"idea": true, "specification": true, "development": true,
	"testing": true, "live": true,
}

// Next returns the status after s, or s itself when already live.
func (s FeatureStatus) Next() FeatureStatus {
	for i, st := range statusFlow {
		if st == s && i+1 < len(statusFlow) {
			return statusFlow[i+1]
		}
	}
	return s
}

// Previous returns the status before s, or s itself when at idea.
func (s FeatureStatus) Previous() FeatureStatus {
	for i, st := range statusFlow {
		if st == s && i > 0 {
			return statusFlow[i-1]
		}
	}
	return s
}

// StatusProgress maps a leaf feature's status to a completion percentage.
func StatusProgress(s FeatureStatus) int {
	switch s {
	case StatusSpecification:
		return 20
	case StatusDevelopment:
		return 60
	case StatusTesting:
		return 80
	case StatusLive:
		return 100
	default:
		return 0
	}
}

type FeaturePriority string

const (
	PriorityLow      FeaturePriority = "low"
	PriorityMedium   FeaturePriority = "medium"
	PriorityHigh     FeaturePriority = "high"
	PriorityCritical FeaturePriority = "critical"
)

// ValidFeaturePriorities is the canonical set of accepted priority strings.
var ValidFeaturePriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}
