package domain

// TodayPreviewLimit caps the combined due-today and upcoming preview.
const TodayPreviewLimit = 5

// TodaySummary is the dashboard landing view.
type TodaySummary struct {
	OverdueCount    int             `json:"overdueCount"`
	DueTodayCount   int             `json:"dueTodayCount"`
	UpcomingCount   int             `json:"upcomingCount"`
	HighestPriority *FollowUpTask   `json:"highestPriority"`
	Preview         []FollowUpTask  `json:"preview"`
	Alerts          []PipelineAlert `json:"alerts"`
}

// Summarize builds the landing view. The preview lists every task due today
// followed by upcoming tasks, up to TodayPreviewLimit entries in total unless
// more than that are due today.
func Summarize(c Categorized, alerts []PipelineAlert) TodaySummary {
	preview := make([]FollowUpTask, 0, TodayPreviewLimit)
	preview = append(preview, c.DueToday...)
	for _, t := range c.Upcoming {
		if len(preview) >= TodayPreviewLimit {
			break
		}
		preview = append(preview, t)
	}
	if alerts == nil {
		alerts = []PipelineAlert{}
	}

	return TodaySummary{
		OverdueCount:    len(c.Overdue),
		DueTodayCount:   len(c.DueToday),
		UpcomingCount:   len(c.Upcoming),
		HighestPriority: c.HighestPriority,
		Preview:         preview,
		Alerts:          alerts,
	}
}
