package model

// Exercise is a self-care activity suggested for a given daily mood.
type Exercise struct {
	ID        string
	Mood      DailyMood
	Title     string
	Category  string
	Content   string
	Emoji     string
	Duration  string
	Intensity string
	Order     int
}
