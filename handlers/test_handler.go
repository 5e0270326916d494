package handlers

import (
	"fmt"
	"net/http"

	"classquiz/middleware"
	"classquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TestHandler serves the teacher-facing quiz CRUD: the test list, basic
// info updates, and question save/delete. Every mutation answers with a
// redirect plus a flash message; question-level mutations keep the edit
// page in editing mode.
type TestHandler struct {
	quizzes *services.QuizService
	auth    *services.AuthService
	log     *zap.Logger
}

func NewTestHandler(quizzes *services.QuizService, auth *services.AuthService, log *zap.Logger) *TestHandler {
	return &TestHandler{
		quizzes: quizzes,
		auth:    auth,
		log:     log,
	}
}

type createTestForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
}

type saveQuestionForm struct {
	QuestionID     *uint  `form:"questionId"`
	Text           string `form:"text" binding:"required"`
	Option1        string `form:"option1" binding:"required"`
	Option2        string `form:"option2" binding:"required"`
	Option3        string `form:"option3"`
	Option4        string `form:"option4"`
	CorrectOptions []int  `form:"correctOptions"`
}

func (h *TestHandler) MyTests(c *gin.Context) {
	user := middleware.CurrentUser(c)

	quizzes, err := h.quizzes.ListForTeacher(user.ID)
	if err != nil {
		h.log.Error("failed to list quizzes", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "my-tests.html", gin.H{
		"currentUser": user,
		"quizzes":     quizzes,
		"quizCount":   len(quizzes),
		"flash":       h.auth.PopFlash(c.Request.Context(), middleware.SessionID(c)),
	})
}

func (h *TestHandler) CreateTest(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	var form createTestForm
	if err := c.ShouldBind(&form); err != nil {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTitleRequired)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	}

	if _, err := h.quizzes.Create(user.ID, form.Title, form.Description); err != nil {
		if err == services.ErrBlankTitle {
			h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTitleRequired)
			c.Redirect(http.StatusSeeOther, "/admin/tests")
			return
		}
		h.log.Error("failed to create quiz", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.auth.SetFlash(c.Request.Context(), sessionID, "success", msgTestCreated)
	c.Redirect(http.StatusSeeOther, "/admin/tests")
}

func (h *TestHandler) EditTest(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, ok := paramUint(c, "quizId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusFound, "/admin/tests")
		return
	}

	quiz, err := h.quizzes.GetForTeacher(quizID, user.ID)
	if err != nil {
		if err != services.ErrNotFound {
			h.log.Error("failed to load quiz", zap.Error(err))
		}
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusFound, "/admin/tests")
		return
	}

	c.HTML(http.StatusOK, "edit-test.html", gin.H{
		"currentUser": user,
		"quiz":        quiz,
		"editing":     c.Query("editing") == "true",
		"flash":       h.auth.PopFlash(c.Request.Context(), sessionID),
	})
}

func (h *TestHandler) UpdateTestBasic(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, ok := paramUint(c, "quizId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	}

	var form createTestForm
	if err := c.ShouldBind(&form); err != nil {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTitleRequired)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	}

	err := h.quizzes.UpdateBasicInfo(quizID, user.ID, form.Title, form.Description)
	switch err {
	case nil:
	case services.ErrNotFound:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	case services.ErrBlankTitle:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTitleRequired)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	default:
		h.log.Error("failed to update quiz", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.auth.SetFlash(c.Request.Context(), sessionID, "success", msgTestUpdated)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
}

func (h *TestHandler) SaveQuestion(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, ok := paramUint(c, "quizId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	}

	var form saveQuestionForm
	if err := c.ShouldBind(&form); err != nil {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgQuestionInvalid)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	}

	created, err := h.quizzes.SaveQuestion(quizID, user.ID, services.SaveQuestionInput{
		QuestionID:     form.QuestionID,
		Text:           form.Text,
		Options:        [4]string{form.Option1, form.Option2, form.Option3, form.Option4},
		CorrectOptions: form.CorrectOptions,
	})
	switch err {
	case nil:
	case services.ErrNotFound:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	case services.ErrQuestionNotFound:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgQuestionNotFound)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	default:
		h.log.Error("failed to save question", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	message := msgQuestionSaved
	if created {
		message = msgQuestionAdded
	}
	h.auth.SetFlash(c.Request.Context(), sessionID, "success", message)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
}

func (h *TestHandler) DeleteQuestion(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	quizID, okQuiz := paramUint(c, "quizId")
	if !okQuiz {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	}
	questionID, okQuestion := paramUint(c, "questionId")
	if !okQuestion {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgQuestionNotFound)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	}

	err := h.quizzes.DeleteQuestion(quizID, user.ID, questionID)
	switch err {
	case nil:
	case services.ErrNotFound:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgTestNotFound)
		c.Redirect(http.StatusSeeOther, "/admin/tests")
		return
	case services.ErrQuestionNotFound:
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgQuestionNotFound)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
		return
	default:
		h.log.Error("failed to delete question", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.auth.SetFlash(c.Request.Context(), sessionID, "success", msgQuestionGone)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/admin/tests/%d?editing=true", quizID))
}
