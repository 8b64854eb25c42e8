package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"soulsync/internal/usecase"
)

// ---- users ----

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	u, err := s.svc.Users.LoginWithDevice(r.Context(), usecase.LoginInput{
		Level:         req.Level,
		ClassOrCourse: req.ClassOrCourse,
		AssistantType: req.AssistantType,
		DeviceID:      req.DeviceID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, _, err := s.auth.Mint(u.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"token": token, "user": toUserDTO(u)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"user": toUserDTO(u)})
}

func (s *Server) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"user": toUserDTO(u)})
}

// ---- moods ----

func (s *Server) handleSubmitMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	e, err := s.svc.Moods.SubmitToday(r.Context(), userIDFrom(r.Context()), req.Mood)
	if err != nil {
		if strings.TrimSpace(req.Mood) == "" || isInvalid(err) {
			s.fail(w, http.StatusBadRequest, "invalid_mood")
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, envelope{"message": s.tr.T("mood_saved"), "data": toMoodDTO(e)})
}

func (s *Server) handleCheckMood(w http.ResponseWriter, r *http.Request) {
	done, err := s.svc.Moods.HasSubmittedToday(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"submitted": done})
}

func (s *Server) handleGetMood(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Moods.Today(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"mood": string(e.Mood), "data": toMoodDTO(e)})
}

func (s *Server) handleMoodRange(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.dateRange(w, r)
	if !ok {
		return
	}
	list, err := s.svc.Moods.Range(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"data": toMoodDTOs(list)})
}

func (s *Server) handleMoodStats(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.dateRange(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Moods.Stats(r.Context(), userIDFrom(r.Context()), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, statsFields(st))
}

// dateRange binds startDate and endDate (YYYY-MM-DD) as server-local days.
// Both are optional: the default is the last 7 days ending today.
func (s *Server) dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var start, end *openapi_types.Date
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "startDate", q, &start); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid_date")
		return time.Time{}, time.Time{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "endDate", q, &end); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid_date")
		return time.Time{}, time.Time{}, false
	}
	now := time.Now()
	to := localDay(now)
	if end != nil {
		to = localDay(end.Time)
	}
	from := to.AddDate(0, 0, -6)
	if start != nil {
		from = localDay(start.Time)
	}
	if to.Before(from) {
		s.fail(w, http.StatusBadRequest, "invalid_date")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// localDay reinterprets a calendar date in the server's zone.
func localDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ---- sessions ----

func (s *Server) handleBookSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	b, err := s.svc.Sessions.Book(r.Context(), usecase.BookInput{
		Username:    req.Username,
		Phone:       req.Phone,
		Problem:     req.Problem,
		SessionType: req.SessionType,
	})
	if err != nil {
		if isInvalid(err) {
			s.fail(w, http.StatusBadRequest, "session_invalid")
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, envelope{"message": s.tr.T("session_booked"), "data": toBookingDTO(b)})
}

// ---- community ----

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.fail(w, http.StatusBadRequest, "message_required")
		return
	}
	p, err := s.svc.Community.Post(r.Context(), userIDFrom(r.Context()), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusCreated, envelope{"message": s.tr.T("message_sent"), "data": toPostDTO(p)})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.Community.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]postDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	s.ok(w, http.StatusOK, envelope{"count": len(out), "data": out})
}

// ---- wellness ----

func (s *Server) handleWellnessToday(w http.ResponseWriter, r *http.Request) {
	mood, list, err := s.svc.Wellness.Today(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"mood": string(mood), "data": toExerciseDTOs(list)})
}

// ---- companions ----

func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	var req aiChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.fail(w, http.StatusBadRequest, "message_required")
		return
	}
	reply, err := s.svc.Chat.Ask(r.Context(), userIDFrom(r.Context()), usecase.AskInput{
		Message:       req.Message,
		Mood:          req.Mood,
		Level:         req.Level,
		ClassOrCourse: req.ClassOrCourse,
		AssistantType: req.AssistantType,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"reply": reply})
}

func (s *Server) handleCounselorReply(w http.ResponseWriter, r *http.Request) {
	var req counselorRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.fail(w, http.StatusBadRequest, "message_required")
		return
	}
	rep, err := s.svc.Counselor.Reply(r.Context(), userIDFrom(r.Context()), req.Text, req.Mood)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"data": toCounselorReplyDTO(rep)})
}

func (s *Server) handleCounselorIntro(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	text, sent, err := s.svc.Counselor.Intro(ctx, userIDFrom(ctx), sessionIDFrom(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"sent": sent, "message": text})
}

func (s *Server) handleQuickReplies(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Counselor.QuickReplies(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("mood"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"data": list})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, http.StatusBadRequest, "invalid_input")
			return
		}
		limit = n
	}
	turns, err := s.svc.Counselor.History(r.Context(), userIDFrom(r.Context()), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, http.StatusOK, envelope{"data": toTurnDTOs(turns)})
}
