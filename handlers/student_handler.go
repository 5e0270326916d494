package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"classquiz/middleware"
	"classquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StudentHandler serves the take-test flow. Submitted attempts feed the
// history the teacher sees on the class pages.
type StudentHandler struct {
	attempts *services.AttemptService
	auth     *services.AuthService
	log      *zap.Logger
}

func NewStudentHandler(attempts *services.AttemptService, auth *services.AuthService, log *zap.Logger) *StudentHandler {
	return &StudentHandler{
		attempts: attempts,
		auth:     auth,
		log:      log,
	}
}

func (h *StudentHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	quizzes, err := h.attempts.AvailableQuizzes(user.ID)
	if err != nil {
		h.log.Error("failed to list available quizzes", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	history, err := h.attempts.HistoryForStudent(user.ID)
	if err != nil {
		h.log.Error("failed to load attempt history", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "student-dashboard.html", gin.H{
		"currentUser": user,
		"quizzes":     quizzes,
		"history":     history,
		"flash":       h.auth.PopFlash(c.Request.Context(), middleware.SessionID(c)),
	})
}

func (h *StudentHandler) TakeTest(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, ok := paramUint(c, "quizId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestUnavailable)
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}

	quiz, err := h.attempts.QuizForStudent(quizID, user.ID)
	if err != nil {
		if err != services.ErrNotFound {
			h.log.Error("failed to load quiz", zap.Error(err))
		}
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestUnavailable)
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}

	c.HTML(http.StatusOK, "take-test.html", gin.H{
		"currentUser": user,
		"quiz":        quiz,
		"flash":       h.auth.PopFlash(c.Request.Context(), sessionID),
	})
}

// SubmitTest scores the posted answers. Each question arrives as a
// multi-valued field q<questionID> holding the chosen option IDs.
func (h *StudentHandler) SubmitTest(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, ok := paramUint(c, "quizId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestUnavailable)
		c.Redirect(http.StatusSeeOther, "/student/dashboard")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestUnavailable)
		c.Redirect(http.StatusSeeOther, "/student/dashboard")
		return
	}

	answers := make(map[uint][]uint)
	for field, values := range c.Request.PostForm {
		if !strings.HasPrefix(field, "q") {
			continue
		}
		questionID, err := strconv.ParseUint(strings.TrimPrefix(field, "q"), 10, 32)
		if err != nil {
			continue
		}
		for _, value := range values {
			optionID, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				continue
			}
			answers[uint(questionID)] = append(answers[uint(questionID)], uint(optionID))
		}
	}

	attempt, err := h.attempts.Submit(quizID, user.ID, answers)
	if err != nil {
		if err != services.ErrNotFound {
			h.log.Error("failed to submit attempt", zap.Error(err))
		}
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestUnavailable)
		c.Redirect(http.StatusSeeOther, "/student/dashboard")
		return
	}

	h.auth.SetFlash(c.Request.Context(), sessionID, "success",
		fmt.Sprintf("Test submitted. Score: %d%%", attempt.Score))
	c.Redirect(http.StatusSeeOther, "/student/dashboard")
}
