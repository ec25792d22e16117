package domain

import "time"

// Categorized buckets tasks by calendar day relative to a reference instant.
type Categorized struct {
	Overdue         []FollowUpTask `json:"overdue"`
	DueToday        []FollowUpTask `json:"dueToday"`
	Upcoming        []FollowUpTask `json:"upcoming"`
	HighestPriority *FollowUpTask  `json:"highestPriority"`
	All             []FollowUpTask `json:"all"`
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Categorize splits tasks into overdue, due today and upcoming. Days are
// calendar days in ref's location. Each bucket keeps input order.
func Categorize(tasks []FollowUpTask, ref time.Time) Categorized {
	loc := ref.Location()
	today := StartOfDay(ref, loc)

	out := Categorized{
		Overdue:  []FollowUpTask{},
		DueToday: []FollowUpTask{},
		Upcoming: []FollowUpTask{},
		All:      tasks,
	}
	if out.All == nil {
		out.All = []FollowUpTask{}
	}

	for _, task := range tasks {
		switch StartOfDay(task.DueDate, loc).Compare(today) {
		case -1:
			out.Overdue = append(out.Overdue, task)
		case 0:
			out.DueToday = append(out.DueToday, task)
		default:
			out.Upcoming = append(out.Upcoming, task)
		}
	}

	for _, bucket := range [][]FollowUpTask{out.Overdue, out.DueToday, out.Upcoming} {
		if len(bucket) > 0 {
			first := bucket[0]
			out.HighestPriority = &first
			break
		}
	}
	return out
}
