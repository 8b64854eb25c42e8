package model

import (
	"math"
	"time"
)

// MoodStats summarizes check-ins over a date range for the dashboard.
type MoodStats struct {
	Average      float64
	BestDay      string
	WorstDay     string
	Streak       int
	TotalEntries int
	Distribution map[DailyMood]int
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ComputeMoodStats aggregates entries. BestDay and WorstDay are the weekday
// names with the highest and lowest mean score (ties go to the earlier
// weekday, Monday first). Streak counts consecutive checked-in days ending at
// end, or at the day before end when end itself has no entry yet.
func ComputeMoodStats(entries []MoodEntry, end time.Time) MoodStats {
	st := MoodStats{Distribution: make(map[DailyMood]int, len(DailyMoods))}
	for _, m := range DailyMoods {
		st.Distribution[m] = 0
	}
	if len(entries) == 0 {
		return st
	}

	var sum int
	var daySum, dayCount [7]int
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		score := e.Mood.Score()
		if score == 0 {
			continue
		}
		st.TotalEntries++
		st.Distribution[e.Mood]++
		sum += score
		wd := e.Date.Weekday()
		daySum[wd] += score
		dayCount[wd]++
		days[dayKey(e.Date)] = true
	}
	if st.TotalEntries == 0 {
		return st
	}
	st.Average = math.Round(float64(sum)/float64(st.TotalEntries)*10) / 10

	best, worst := -1.0, math.MaxFloat64
	for _, wd := range weekOrder {
		if dayCount[wd] == 0 {
			continue
		}
		avg := float64(daySum[wd]) / float64(dayCount[wd])
		if avg > best {
			best = avg
			st.BestDay = wd.String()
		}
		if avg < worst {
			worst = avg
			st.WorstDay = wd.String()
		}
	}

	day := StartOfDay(end)
	if !days[dayKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	for days[dayKey(day)] {
		st.Streak++
		day = day.AddDate(0, 0, -1)
	}
	return st
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }
