package handlers

import (
	"net/http"

	"classquiz/middleware"
	"classquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the teacher dashboard, class views, and the student
// test-history page.
type AdminHandler struct {
	dashboard *services.DashboardService
	auth      *services.AuthService
	log       *zap.Logger
}

func NewAdminHandler(dashboard *services.DashboardService, auth *services.AuthService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		auth:      auth,
		log:       log,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	classes, err := h.dashboard.ClassesForTeacher(user.ID)
	if err != nil {
		h.log.Error("failed to load classes", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"currentUser":     user,
		"assignedClasses": classes,
		"classCount":      len(classes),
		"flash":           h.auth.PopFlash(c.Request.Context(), middleware.SessionID(c)),
	})
}

func (h *AdminHandler) MyClasses(c *gin.Context) {
	user := middleware.CurrentUser(c)

	classes, err := h.dashboard.ClassesForTeacher(user.ID)
	if err != nil {
		h.log.Error("failed to load classes", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "admin-classes.html", gin.H{
		"currentUser": user,
		"classes":     classes,
		"flash":       h.auth.PopFlash(c.Request.Context(), middleware.SessionID(c)),
	})
}

func (h *AdminHandler) ViewClass(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	classID, ok := paramUint(c, "classId")
	if !ok {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgClassNotFound)
		c.Redirect(http.StatusFound, "/admin/classes")
		return
	}

	class, err := h.dashboard.ClassForTeacher(classID, user.ID)
	if err != nil {
		if err != services.ErrNotFound {
			h.log.Error("failed to load class", zap.Error(err))
		}
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgClassNotFound)
		c.Redirect(http.StatusFound, "/admin/classes")
		return
	}

	c.HTML(http.StatusOK, "admin-class-view.html", gin.H{
		"currentUser":  user,
		"classEntity":  class,
		"students":     h.dashboard.SortStudents(class),
		"scheduleDays": h.dashboard.ScheduleDays(class),
		"timeRange":    h.dashboard.FormatTimeRange(class),
		"flash":        h.auth.PopFlash(c.Request.Context(), sessionID),
	})
}

func (h *AdminHandler) ViewStudentTests(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessionID := middleware.SessionID(c)

	classID, okClass := paramUint(c, "classId")
	studentID, okStudent := paramUint(c, "studentId")
	if !okClass || !okStudent {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgClassNotFound)
		c.Redirect(http.StatusFound, "/admin/classes")
		return
	}

	class, err := h.dashboard.ClassForTeacher(classID, user.ID)
	if err != nil {
		if err != services.ErrNotFound {
			h.log.Error("failed to load class", zap.Error(err))
		}
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgClassNotFound)
		c.Redirect(http.StatusFound, "/admin/classes")
		return
	}

	student, found := h.dashboard.FindStudentInClass(class, studentID)
	if !found {
		h.auth.SetFlash(c.Request.Context(), sessionID, "error", msgStudentNotFound)
		c.Redirect(http.StatusFound, "/admin/classes")
		return
	}

	snapshot, err := h.dashboard.TestHistorySnapshot(user.ID)
	if err != nil {
		h.log.Error("failed to build test history", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	history := make([]services.TestHistoryEntry, 0, len(snapshot))
	for _, entry := range snapshot {
		if entry.StudentID == student.ID {
			history = append(history, entry)
		}
	}

	c.HTML(http.StatusOK, "admin-test-history.html", gin.H{
		"currentUser": user,
		"classEntity": class,
		"student":     student,
		"history":     history,
		"flash":       h.auth.PopFlash(c.Request.Context(), sessionID),
	})
}
