package obis

import "context"

// Portal authenticates a student against the university portal and opens a
// session scoped to that student.
type Portal interface {
	// Login submits the credentials and returns an authenticated session.
	// Fails with ErrAuthenticationFailed when the portal rejects them.
	Login(ctx context.Context, studentNumber, password string) (PortalSession, error)
}

// PortalSession is an open, authenticated portal session for one student.
// It must be closed on every exit path.
type PortalSession interface {
	// FetchAttendance retrieves the current attendance snapshot. Records
	// carry no user ID; the caller stamps it.
	FetchAttendance(ctx context.Context) ([]AttendanceRecord, error)
	// FetchGrades retrieves the current exam/grade snapshot grouped by
	// lesson, in page order.
	FetchGrades(ctx context.Context) ([]LessonExams, error)
	// Close releases the underlying network session.
	Close() error
}

// AttendanceHistoryRepository is the append-only store of observed
// attendance records.
type AttendanceHistoryRepository interface {
	// FindLast returns the most recently appended record for the
	// (user, lesson) pair, or nil when no observation exists yet.
	FindLast(ctx context.Context, userID int64, lessonCode string) (*AttendanceRecord, error)
	// Append stores a new observation. The lesson directory entry is created
	// first when missing; an existing entry's name is never overwritten.
	Append(ctx context.Context, rec AttendanceRecord) error
}

// GradeHistoryRepository is the append-only store of observed grade records.
type GradeHistoryRepository interface {
	// FindLast returns the most recently appended record for the
	// (user, lesson, exam) triple, or nil when no observation exists yet.
	FindLast(ctx context.Context, userID int64, lessonCode, examName string) (*GradeRecord, error)
	// Append stores a new observation, upserting the lesson directory entry
	// first.
	Append(ctx context.Context, rec GradeRecord) error
}
