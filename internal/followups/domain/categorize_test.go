package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeScenario(t *testing.T) {
	c := Categorize(BuildTasks(fixture()), day("2024-06-01"))

	assert.Equal(t, []string{"lead:L1"}, taskIDs(c.Overdue))
	assert.Equal(t, []string{"contact:C4"}, taskIDs(c.DueToday))
	assert.Equal(t, []string{"contact:C2"}, taskIDs(c.Upcoming))
	require.NotNil(t, c.HighestPriority)
	assert.Equal(t, "lead:L1", c.HighestPriority.ID)
	assert.Len(t, c.All, 3)
}

func TestCategorizeUsesCalendarDays(t *testing.T) {
	tasks := []FollowUpTask{
		{ID: "early", DueDate: at("2024-06-01T00:00:00Z")},
		{ID: "late", DueDate: at("2024-06-01T23:59:59Z")},
		{ID: "yesterday", DueDate: at("2024-05-31T23:59:59Z")},
		{ID: "tomorrow", DueDate: at("2024-06-02T00:00:00Z")},
	}

	c := Categorize(tasks, at("2024-06-01T12:00:00Z"))

	assert.Equal(t, []string{"yesterday"}, taskIDs(c.Overdue))
	assert.Equal(t, []string{"early", "late"}, taskIDs(c.DueToday))
	assert.Equal(t, []string{"tomorrow"}, taskIDs(c.Upcoming))
}

func TestCategorizeEvaluatesDaysInReferenceLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 03:00 UTC on June 2 is still June 1 in Chicago.
	tasks := []FollowUpTask{{ID: "t", DueDate: at("2024-06-02T03:00:00Z")}}

	assert.Equal(t, []string{"t"}, taskIDs(Categorize(tasks, at("2024-06-01T12:00:00Z")).Upcoming))
	assert.Equal(t, []string{"t"}, taskIDs(Categorize(tasks, at("2024-06-01T12:00:00Z").In(chicago)).DueToday))
}

func TestCategorizePriorityFallback(t *testing.T) {
	ref := day("2024-06-01")
	today := FollowUpTask{ID: "today", DueDate: ref}
	later := FollowUpTask{ID: "later", DueDate: day("2024-06-05")}
	past := FollowUpTask{ID: "past", DueDate: day("2024-05-01")}

	cases := []struct {
		name  string
		tasks []FollowUpTask
		want  string
	}{
		{"overdue wins", []FollowUpTask{past, today, later}, "past"},
		{"due today next", []FollowUpTask{today, later}, "today"},
		{"upcoming last", []FollowUpTask{later}, "later"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Categorize(tc.tasks, ref)
			require.NotNil(t, c.HighestPriority)
			assert.Equal(t, tc.want, c.HighestPriority.ID)
		})
	}
}

func TestCategorizePartitionIsExhaustiveAndDisjoint(t *testing.T) {
	tasks := BuildTasks(fixture())
	for _, ref := range []time.Time{day("2024-05-01"), day("2024-05-28"), day("2024-06-01"), day("2024-07-01")} {
		c := Categorize(tasks, ref)
		counts := map[string]int{}
		for _, bucket := range [][]FollowUpTask{c.Overdue, c.DueToday, c.Upcoming} {
			for _, task := range bucket {
				counts[task.ID]++
			}
		}
		assert.Len(t, counts, len(tasks), ref)
		for id, n := range counts {
			assert.Equal(t, 1, n, "%s at %s", id, ref)
		}
	}
}

func TestCategorizeEmpty(t *testing.T) {
	c := Categorize(nil, day("2024-06-01"))

	assert.Nil(t, c.HighestPriority)
	assert.NotNil(t, c.All)
	assert.Empty(t, c.All)
	assert.Empty(t, c.Overdue)
}
