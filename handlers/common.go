package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// User-facing flash messages. Missing and not-owned resources share one
// message so nothing leaks about other teachers' data.
const (
	msgTestCreated   = "Test created successfully."
	msgTestUpdated   = "Test info updated."
	msgQuestionAdded = "Question added."
	msgQuestionSaved = "Question updated."
	msgQuestionGone  = "Question deleted."

	msgTestNotFound     = "Test not found or you are not allowed to edit it."
	msgQuestionNotFound = "Question not found."
	msgClassNotFound    = "Class not found or you are not allowed to view it."
	msgStudentNotFound  = "Student not found in this class."
	msgTestUnavailable  = "Test not found or not available."
	msgQuestionInvalid  = "Question text and the first two options are required."
	msgTitleRequired    = "Title is required."
)

func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}
