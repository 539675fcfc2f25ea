package model

import "time"

// Feedback is a single citizen response collected by the public portal.
// WillVote records intent as a boolean; the "Yes"/"No" wire form is converted
// at the HTTP boundary.
type Feedback struct {
	ID         int64     `json:"id" db:"id"`
	Subcounty  string    `json:"subcounty" db:"subcounty"`
	Ward       string    `json:"ward" db:"ward"`
	Village    string    `json:"village" db:"village"`
	AgeBracket string    `json:"age_bracket" db:"age_bracket"`
	WillVote   bool      `json:"will_vote" db:"will_vote"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FeedbackSummary holds the portal-wide yes/no totals.
type FeedbackSummary struct {
	Total    int64 `json:"total_responses" db:"total"`
	TotalYes int64 `json:"total_yes" db:"yes_count"`
	TotalNo  int64 `json:"total_no" db:"no_count"`
}

// RegionBreakdown is one row of a grouped feedback count. Region carries the
// grouping value (subcounty, ward, or village depending on the query).
type RegionBreakdown struct {
	Region   string `json:"region" db:"region"`
	Total    int64  `json:"total" db:"total"`
	YesCount int64  `json:"yes_count" db:"yes_count"`
	NoCount  int64  `json:"no_count" db:"no_count"`
}

// QuickStats is the admin-overview snapshot shown on the dashboard landing page.
type QuickStats struct {
	TotalAdmins      int64      `json:"total_admins"`
	TotalFeedback    int64      `json:"total_feedback"`
	TotalSubcounties int64      `json:"total_subcounties"`
	LatestFeedback   *time.Time `json:"latest_feedback"`
}
