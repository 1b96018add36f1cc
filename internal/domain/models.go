package domain

import "time"

// Role is the seniority of a team member. The zero value is not valid.
type Role string

const (
	RoleJunior    Role = "junior"
	RoleSenior    Role = "senior"
	RoleLead      Role = "lead"
	RoleArchitect Role = "architect"
	RoleManager   Role = "manager"
)

// Rank returns the position of the role in the seniority order,
// starting at 1 for junior. Unknown roles rank below junior.
func (r Role) Rank() int {
	switch r {
	case RoleJunior:
		return 1
	case RoleSenior:
		return 2
	case RoleLead:
		return 3
	case RoleArchitect:
		return 4
	case RoleManager:
		return 5
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

type ExpertiseLevel string

const (
	LevelBeginner     ExpertiseLevel = "beginner"
	LevelIntermediate ExpertiseLevel = "intermediate"
	LevelAdvanced     ExpertiseLevel = "advanced"
	LevelExpert       ExpertiseLevel = "expert"
)

// Rank orders expertise levels strictly: expert > advanced > intermediate > beginner.
func (l ExpertiseLevel) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelExpert:
		return 4
	default:
		return 0
	}
}

type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusBusy      AvailabilityStatus = "busy"
	StatusInMeeting AvailabilityStatus = "in_meeting"
	StatusOffline   AvailabilityStatus = "offline"
)

type Expertise struct {
	Technology string         `json:"technology"`
	Level      ExpertiseLevel `json:"level"`
	Years      int            `json:"years"`
}

type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Availability struct {
	Status       AvailabilityStatus `json:"status"`
	WorkingHours WorkingHours       `json:"working_hours"`
	Timezone     string             `json:"timezone"`
}

// Preferences are consumed only for human-readable reasoning strings,
// never by the scoring functions.
type Preferences struct {
	Communication string `json:"communication"`
	Review        string `json:"review"`
	Learning      string `json:"learning"`
	WorkingStyle  string `json:"working_style"`
}

// TeamMember is owned by the team model. Workload is always within [0,100].
type TeamMember struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Skills       []string     `json:"skills"`
	Expertise    []Expertise  `json:"expertise"`
	Workload     int          `json:"workload"`
	Availability Availability `json:"availability"`
	Preferences  Preferences  `json:"preferences"`
}

type ConflictType string

const (
	ConflictMerge     ConflictType = "merge"
	ConflictDesign    ConflictType = "design"
	ConflictPriority  ConflictType = "priority"
	ConflictTechnical ConflictType = "technical"
)

type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "low"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityHigh     ConflictSeverity = "high"
	SeverityCritical ConflictSeverity = "critical"
)

type ConflictStatus string

const (
	ConflictPending    ConflictStatus = "pending"
	ConflictInProgress ConflictStatus = "in_progress"
	ConflictResolved   ConflictStatus = "resolved"
	ConflictEscalated  ConflictStatus = "escalated"
)

// Terminal reports whether no further status transition is allowed.
func (s ConflictStatus) Terminal() bool {
	return s == ConflictResolved || s == ConflictEscalated
}

// ConflictData is the detection payload. All slices are optional; which of
// them are populated drives conflict classification.
type ConflictData struct {
	Files        []string `json:"files,omitempty"`
	Branches     []string `json:"branches,omitempty"`
	PullRequests []string `json:"pull_requests,omitempty"`
	Discussions  []string `json:"discussions,omitempty"`
	Context      string   `json:"context,omitempty"`
}

type ResolutionSuggestion struct {
	Approach         string   `json:"approach"`
	Steps            []string `json:"steps"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Confidence       float64  `json:"confidence"`
	Alternatives     []string `json:"alternatives,omitempty"`
	Mediator         *string  `json:"mediator,omitempty"`
	RequiresMediator bool     `json:"requires_mediator"`
}

// ConflictResolution is created on detection and mutated only through
// explicit status transitions. Records are never deleted.
type ConflictResolution struct {
	ID              string               `json:"id"`
	Type            ConflictType         `json:"type"`
	Severity        ConflictSeverity     `json:"severity"`
	InvolvedMembers []string             `json:"involved_members"`
	Data            ConflictData         `json:"data"`
	Suggestion      ResolutionSuggestion `json:"suggestion"`
	Status          ConflictStatus       `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
	ResolvedAt      *time.Time           `json:"resolved_at,omitempty"`
}

type ReviewerSuggestion struct {
	MemberID       string             `json:"member_id"`
	Confidence     float64            `json:"confidence"`
	Reasoning      []string           `json:"reasoning"`
	Availability   AvailabilityStatus `json:"availability"`
	ExpertiseMatch float64            `json:"expertise_match"`
	WorkloadImpact float64            `json:"workload_impact"`
}

// CodeReviewAssignment is immutable once created; changed requirements
// produce a new assignment.
type CodeReviewAssignment struct {
	ID                string               `json:"id"`
	ChangeID          string               `json:"change_id"`
	Author            string               `json:"author"`
	Suggestions       []ReviewerSuggestion `json:"suggestions"`
	Priority          string               `json:"priority"`
	EstimatedMinutes  int                  `json:"estimated_minutes"`
	RequiredExpertise []string             `json:"required_expertise"`
	CreatedAt         time.Time            `json:"created_at"`
}

type CoordinationStatus string

const (
	CoordinationPlanning   CoordinationStatus = "planning"
	CoordinationAssigned   CoordinationStatus = "assigned"
	CoordinationInProgress CoordinationStatus = "in_progress"
	CoordinationCompleted  CoordinationStatus = "completed"
)

type AssignmentSuggestion struct {
	MemberID            string    `json:"member_id"`
	Confidence          float64   `json:"confidence"`
	SkillMatch          float64   `json:"skill_match"`
	Availability        float64   `json:"availability"`
	ProjectedWorkload   int       `json:"projected_workload"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

type TeamCoordination struct {
	ID             string                 `json:"id"`
	Task           string                 `json:"task"`
	RequiredSkills []string               `json:"required_skills"`
	EffortHours    float64                `json:"effort_hours"`
	Priority       string                 `json:"priority"`
	Deadline       *time.Time             `json:"deadline,omitempty"`
	Suggestions    []AssignmentSuggestion `json:"suggestions"`
	Dependencies   []string               `json:"dependencies,omitempty"`
	Status         CoordinationStatus     `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
}

type TransferType string

const (
	TransferDocumentation    TransferType = "documentation"
	TransferCodeWalkthrough  TransferType = "code_walkthrough"
	TransferMentoringSession TransferType = "mentoring_session"
	TransferPairProgramming  TransferType = "pair_programming"
)

// KnowledgeTransfer pairs an expert (source) with a learner (target).
// Source and target are never the same member.
type KnowledgeTransfer struct {
	ID          string       `json:"id"`
	Type        TransferType `json:"type"`
	SourceID    string       `json:"source_id"`
	TargetID    string       `json:"target_id"`
	Topic       string       `json:"topic"`
	Approach    string       `json:"approach"`
	Hours       float64      `json:"hours"`
	Priority    float64      `json:"priority"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// KnowledgeGap is a detected skill gap. Unaddressable gaps carry no transfer.
type KnowledgeGap struct {
	MemberID      string             `json:"member_id"`
	Skill         string             `json:"skill"`
	Urgency       float64            `json:"urgency"`
	Unaddressable bool               `json:"unaddressable"`
	Transfer      *KnowledgeTransfer `json:"transfer,omitempty"`
}

// TeamMetrics is one observability snapshot. It feeds dashboards only and
// is never an input to scoring.
type TeamMetrics struct {
	Timestamp     time.Time `json:"timestamp"`
	Productivity  float64   `json:"productivity"`
	Collaboration float64   `json:"collaboration"`
	Workload      float64   `json:"workload"`
	Communication float64   `json:"communication"`
	MemberCount   int       `json:"member_count"`
	AvailableNow  int       `json:"available_now"`
}
