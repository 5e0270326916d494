package services

import (
	"testing"

	"classquiz/models"

	"go.uber.org/zap"
)

func TestCreate_TrimsTitleAndNullsBlankDescription(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")

	quiz, err := svc.Create(teacher.ID, "  Algebra  ", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var stored models.Quiz
	if err := db.First(&stored, quiz.ID).Error; err != nil {
		t.Fatalf("failed to load quiz: %v", err)
	}
	if stored.Title != "Algebra" {
		t.Errorf("Title: got %q, want %q", stored.Title, "Algebra")
	}
	if stored.Description != nil {
		t.Errorf("Description: got %v, want nil", *stored.Description)
	}
	if stored.TeacherID != teacher.ID {
		t.Errorf("TeacherID: got %d, want %d", stored.TeacherID, teacher.ID)
	}
}

func TestCreate_BlankTitleRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")

	if _, err := svc.Create(teacher.ID, "   ", ""); err != ErrBlankTitle {
		t.Errorf("expected ErrBlankTitle, got %v", err)
	}
}

func TestGetForTeacher_OwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	alice := createTeacher(t, db, "alice")
	bob := createTeacher(t, db, "bob")

	quiz, err := svc.Create(alice.ID, "Algebra", "basics")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.GetForTeacher(quiz.ID, alice.ID); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetForTeacher(quiz.ID, bob.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for other teacher, got %v", err)
	}

	// Mutations by the other teacher must not touch the quiz either.
	if err := svc.UpdateBasicInfo(quiz.ID, bob.ID, "Hijacked", ""); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on foreign update, got %v", err)
	}
	var stored models.Quiz
	if err := db.First(&stored, quiz.ID).Error; err != nil {
		t.Fatalf("failed to load quiz: %v", err)
	}
	if stored.Title != "Algebra" {
		t.Errorf("title changed by foreign teacher: %q", stored.Title)
	}
}

func TestUpdateBasicInfo_BlankDescriptionClearsStored(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")

	quiz, err := svc.Create(teacher.ID, "Algebra", "old description")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.UpdateBasicInfo(quiz.ID, teacher.ID, "Algebra II", "  "); err != nil {
		t.Fatalf("UpdateBasicInfo failed: %v", err)
	}

	var stored models.Quiz
	if err := db.First(&stored, quiz.ID).Error; err != nil {
		t.Fatalf("failed to load quiz: %v", err)
	}
	if stored.Title != "Algebra II" {
		t.Errorf("Title: got %q, want %q", stored.Title, "Algebra II")
	}
	if stored.Description != nil {
		t.Errorf("Description: got %q, want nil", *stored.Description)
	}
}

func TestSaveQuestion_SkipsBlankSlotsAndFlagsCorrect(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")

	created, err := svc.SaveQuestion(quiz.ID, teacher.ID, SaveQuestionInput{
		Text:           "What is 2+2?",
		Options:        [4]string{"2+2=4", "2+2=5", "", ""},
		CorrectOptions: []int{1},
	})
	if err != nil {
		t.Fatalf("SaveQuestion failed: %v", err)
	}
	if !created {
		t.Error("expected created=true for new question")
	}

	loaded, err := svc.GetForTeacher(quiz.ID, teacher.ID)
	if err != nil {
		t.Fatalf("GetForTeacher failed: %v", err)
	}
	if len(loaded.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(loaded.Questions))
	}
	options := loaded.Questions[0].Options
	if len(options) != 2 {
		t.Fatalf("expected 2 options (blank slots skipped), got %d", len(options))
	}
	if !options[0].IsCorrect || options[0].Text != "2+2=4" {
		t.Errorf("first option: got %+v, want correct %q", options[0], "2+2=4")
	}
	if options[1].IsCorrect || options[1].Text != "2+2=5" {
		t.Errorf("second option: got %+v, want incorrect %q", options[1], "2+2=5")
	}
}

func TestSaveQuestion_RebuildIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")

	input := SaveQuestionInput{
		Text:           "What is 2+2?",
		Options:        [4]string{"4", "5", "22", ""},
		CorrectOptions: []int{1},
	}
	if _, err := svc.SaveQuestion(quiz.ID, teacher.ID, input); err != nil {
		t.Fatalf("initial save failed: %v", err)
	}

	loaded, _ := svc.GetForTeacher(quiz.ID, teacher.ID)
	questionID := loaded.Questions[0].ID

	// Saving the identical form again must not duplicate options.
	input.QuestionID = &questionID
	created, err := svc.SaveQuestion(quiz.ID, teacher.ID, input)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if created {
		t.Error("expected created=false on update path")
	}

	var count int64
	db.Model(&models.Option{}).Where("question_id = ?", questionID).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 options after resave, got %d", count)
	}
}

func TestSaveQuestion_UpdateMissingQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")

	missing := uint(9999)
	_, err := svc.SaveQuestion(quiz.ID, teacher.ID, SaveQuestionInput{
		QuestionID: &missing,
		Text:       "updated?",
		Options:    [4]string{"a", "b", "", ""},
	})
	if err != ErrQuestionNotFound {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSaveQuestion_CannotAdoptForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quizA, _ := svc.Create(teacher.ID, "Quiz A", "")
	quizB, _ := svc.Create(teacher.ID, "Quiz B", "")

	if _, err := svc.SaveQuestion(quizA.ID, teacher.ID, SaveQuestionInput{
		Text:    "belongs to A",
		Options: [4]string{"x", "y", "", ""},
	}); err != nil {
		t.Fatalf("SaveQuestion failed: %v", err)
	}
	loaded, _ := svc.GetForTeacher(quizA.ID, teacher.ID)
	questionID := loaded.Questions[0].ID

	// The question belongs to quiz A; saving it through quiz B must fail.
	_, err := svc.SaveQuestion(quizB.ID, teacher.ID, SaveQuestionInput{
		QuestionID: &questionID,
		Text:       "stolen",
		Options:    [4]string{"x", "y", "", ""},
	})
	if err != ErrQuestionNotFound {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestDeleteQuestion_RemovesOnlyTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.SaveQuestion(quiz.ID, teacher.ID, SaveQuestionInput{
			Text:    text,
			Options: [4]string{"a", "b", "", ""},
		}); err != nil {
			t.Fatalf("SaveQuestion failed: %v", err)
		}
	}

	loaded, _ := svc.GetForTeacher(quiz.ID, teacher.ID)
	target := loaded.Questions[1]

	if err := svc.DeleteQuestion(quiz.ID, teacher.ID, target.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}

	loaded, _ = svc.GetForTeacher(quiz.ID, teacher.ID)
	if len(loaded.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(loaded.Questions))
	}
	if loaded.Questions[0].Text != "first" || loaded.Questions[1].Text != "third" {
		t.Errorf("remaining question order changed: %q, %q",
			loaded.Questions[0].Text, loaded.Questions[1].Text)
	}

	// Options of the deleted question are gone too.
	var count int64
	db.Model(&models.Option{}).Where("question_id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 options for deleted question, got %d", count)
	}
}

func TestSaveQuestion_AppendsAfterDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.SaveQuestion(quiz.ID, teacher.ID, SaveQuestionInput{
			Text:    text,
			Options: [4]string{"a", "b", "", ""},
		}); err != nil {
			t.Fatalf("SaveQuestion failed: %v", err)
		}
	}

	loaded, _ := svc.GetForTeacher(quiz.ID, teacher.ID)
	if err := svc.DeleteQuestion(quiz.ID, teacher.ID, loaded.Questions[0].ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}

	// A question added after a delete must land behind the survivors,
	// never on a position a survivor still holds.
	if _, err := svc.SaveQuestion(quiz.ID, teacher.ID, SaveQuestionInput{
		Text:    "fourth",
		Options: [4]string{"a", "b", "", ""},
	}); err != nil {
		t.Fatalf("SaveQuestion failed: %v", err)
	}

	loaded, err := svc.GetForTeacher(quiz.ID, teacher.ID)
	if err != nil {
		t.Fatalf("GetForTeacher failed: %v", err)
	}
	if len(loaded.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(loaded.Questions))
	}

	seen := make(map[int]string)
	for _, q := range loaded.Questions {
		if holder, dup := seen[q.Position]; dup {
			t.Fatalf("position %d held by both %q and %q", q.Position, holder, q.Text)
		}
		seen[q.Position] = q.Text
	}

	want := []string{"second", "third", "fourth"}
	for i, q := range loaded.Questions {
		if q.Text != want[i] {
			t.Errorf("question %d: got %q, want %q", i, q.Text, want[i])
		}
	}
}

func TestDeleteQuestion_NonMemberLeavesQuizUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db, zap.NewNop())
	teacher := createTeacher(t, db, "alice")
	quiz, _ := svc.Create(teacher.ID, "Arithmetic", "")
	other, _ := svc.Create(teacher.ID, "Geometry", "")

	if _, err := svc.SaveQuestion(other.ID, teacher.ID, SaveQuestionInput{
		Text:    "elsewhere",
		Options: [4]string{"a", "b", "", ""},
	}); err != nil {
		t.Fatalf("SaveQuestion failed: %v", err)
	}
	loaded, _ := svc.GetForTeacher(other.ID, teacher.ID)
	foreignQuestion := loaded.Questions[0].ID

	if err := svc.DeleteQuestion(quiz.ID, teacher.ID, foreignQuestion); err != ErrQuestionNotFound {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}

	var count int64
	db.Model(&models.Question{}).Where("id = ?", foreignQuestion).Count(&count)
	if count != 1 {
		t.Errorf("foreign question was deleted")
	}
}
