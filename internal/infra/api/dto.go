package api

import (
	"time"

	"soulsync/internal/domain/model"
	"soulsync/internal/usecase"
)

const dateLayout = "2006-01-02"

// ---- requests ----

type loginRequest struct {
	Level         string `json:"level"`
	ClassOrCourse string `json:"classOrCourse"`
	AssistantType string `json:"assistantType"`
	DeviceID      string `json:"deviceId"`
}

type moodRequest struct {
	Mood string `json:"mood"`
}

type sessionRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	Problem     string `json:"problem"`
	SessionType string `json:"sessionType"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type aiChatRequest struct {
	Message       string `json:"message"`
	Mood          string `json:"mood"`
	Level         string `json:"level"`
	ClassOrCourse string `json:"classOrCourse"`
	AssistantType string `json:"assistantType"`
}

type counselorRequest struct {
	Text string `json:"text"`
	Mood string `json:"mood"`
}

// ---- responses ----

type userDTO struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Level         string    `json:"level"`
	ClassOrCourse string    `json:"classOrCourse"`
	AssistantType string    `json:"assistantType"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:            u.ID,
		Username:      u.Username,
		Level:         string(u.Level),
		ClassOrCourse: u.ClassOrCourse,
		AssistantType: string(u.Persona),
		CreatedAt:     u.CreatedAt,
	}
}

type moodDTO struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMoodDTO(e *model.MoodEntry) moodDTO {
	return moodDTO{ID: e.ID, Mood: string(e.Mood), Date: e.Date.Format(dateLayout), CreatedAt: e.CreatedAt}
}

func toMoodDTOs(list []*model.MoodEntry) []moodDTO {
	out := make([]moodDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toMoodDTO(e))
	}
	return out
}

func statsFields(st model.MoodStats) envelope {
	dist := make(map[string]int, len(st.Distribution))
	for m, n := range st.Distribution {
		dist[string(m)] = n
	}
	return envelope{
		"average":      st.Average,
		"bestDay":      st.BestDay,
		"worstDay":     st.WorstDay,
		"streak":       st.Streak,
		"totalEntries": st.TotalEntries,
		"distribution": dist,
	}
}

type turnDTO struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTurnDTOs(list []*model.Turn) []turnDTO {
	out := make([]turnDTO, 0, len(list))
	for _, t := range list {
		out = append(out, turnDTO{ID: t.ID, Sender: string(t.Sender), Text: t.Text, CreatedAt: t.CreatedAt})
	}
	return out
}

type counselorReplyDTO struct {
	Reply         string `json:"reply"`
	Topic         string `json:"topic,omitempty"`
	Mood          string `json:"mood,omitempty"`
	Crisis        bool   `json:"crisis"`
	TypingDelayMs int64  `json:"typingDelayMs"`
}

func toCounselorReplyDTO(r *usecase.CounselorReply) counselorReplyDTO {
	return counselorReplyDTO{
		Reply:         r.Text,
		Topic:         string(r.Topic),
		Mood:          string(r.Mood),
		Crisis:        r.Crisis(),
		TypingDelayMs: r.TypingDelay.Milliseconds(),
	}
}

type postDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPostDTO(p *model.Post) postDTO {
	return postDTO{ID: p.ID, UserID: p.UserID, Username: p.Username, Text: p.Text, CreatedAt: p.CreatedAt}
}

type bookingDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	SessionType string    `json:"sessionType"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBookingDTO(b *model.SessionBooking) bookingDTO {
	return bookingDTO{ID: b.ID, Username: b.Username, SessionType: string(b.Type), Status: string(b.Status), CreatedAt: b.CreatedAt}
}

type exerciseDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Content   string `json:"content"`
	Emoji     string `json:"emoji,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Intensity string `json:"intensity,omitempty"`
	Mood      string `json:"mood"`
	Order     int    `json:"order"`
}

func toExerciseDTOs(list []*model.Exercise) []exerciseDTO {
	out := make([]exerciseDTO, 0, len(list))
	for _, e := range list {
		out = append(out, exerciseDTO{
			ID: e.ID, Title: e.Title, Category: e.Category, Content: e.Content,
			Emoji: e.Emoji, Duration: e.Duration, Intensity: e.Intensity,
			Mood: string(e.Mood), Order: e.Order,
		})
	}
	return out
}
