package dto

// StudentDashboardResponse aggregates everything the student landing page
// renders in one call.
type StudentDashboardResponse struct {
	Student             StudentResponse          `json:"student"`
	UpcomingClasses     []ClassResponse          `json:"upcoming_classes"`
	PendingTasks        []TaskSubmissionResponse `json:"pending_tasks"`
	AttendancePercent   float64                  `json:"attendance_percent"`
	RecentMarks         []TestMarkResponse       `json:"recent_marks"`
	PendingFees         []FeeResponse            `json:"pending_fees"`
	UnreadNotifications int64                    `json:"unread_notifications"`
	UpcomingEvents      []EventResponse          `json:"upcoming_events"`
}

// ChildSummary is one child's snapshot inside the parent dashboard.
type ChildSummary struct {
	Student           StudentResponse    `json:"student"`
	AttendancePercent float64            `json:"attendance_percent"`
	RecentMarks       []TestMarkResponse `json:"recent_marks"`
	PendingFees       []FeeResponse      `json:"pending_fees"`
}

// ParentDashboardResponse aggregates per-child snapshots for a parent.
type ParentDashboardResponse struct {
	Children []ChildSummary `json:"children"`
}

// AdminDashboardResponse carries center-wide counts for the admin overview.
type AdminDashboardResponse struct {
	TotalStudents   int64                 `json:"total_students"`
	TotalBatches    int64                 `json:"total_batches"`
	UpcomingClasses int64                 `json:"upcoming_classes"`
	PendingDemos    int64                 `json:"pending_demos"`
	FeeTotals       FeeTotalsResponse     `json:"fee_totals"`
	RecentDemos     []DemoBookingResponse `json:"recent_demos"`
}
