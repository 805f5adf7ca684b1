package obis

// Exam is a single exam entry on the taken-grades page. Score is nil until
// the portal publishes one.
type Exam struct {
	Name  string
	Score *string
}

// LessonExams groups the exam entries of one lesson, in page order.
type LessonExams struct {
	LessonCode string
	LessonName string
	Exams      []Exam
}

// GradeRecord is one exam's score for one student, flattened for storage
// and comparison.
type GradeRecord struct {
	UserID     int64
	LessonCode string
	LessonName string
	ExamName   string
	Score      *string
}

// GradeEqual reports whether two grade records are the same for
// change-detection purposes: lesson code, exam name and score. The lesson
// name is display-only.
func GradeEqual(a, b GradeRecord) bool {
	return a.LessonCode == b.LessonCode &&
		a.ExamName == b.ExamName &&
		stringPtrEqual(a.Score, b.Score)
}

// GradeChange is a detected difference between the last stored grade record
// and a freshly fetched one. Previous is nil on the first ever observation
// of the exam.
type GradeChange struct {
	Previous *GradeRecord
	Current  GradeRecord
}

// IsFirstObservation reports whether no prior record existed.
func (c GradeChange) IsFirstObservation() bool {
	return c.Previous == nil
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
