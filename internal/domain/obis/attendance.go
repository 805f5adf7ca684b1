package obis

// AttendanceRecord is one lesson's skip standing for one student, as
// reported by the portal's taken-lessons page. Percentages are nil when the
// portal shows no value (or one that does not parse as a number).
type AttendanceRecord struct {
	UserID                  int64
	LessonCode              string
	LessonName              string
	TheorySkipsPercentage   *float64
	PracticeSkipsPercentage *float64
}

// AttendanceEqual reports whether two attendance records are the same for
// change-detection purposes. Only the lesson code and the two percentages
// participate: a lesson being renamed is not an attendance change.
func AttendanceEqual(a, b AttendanceRecord) bool {
	return a.LessonCode == b.LessonCode &&
		floatPtrEqual(a.TheorySkipsPercentage, b.TheorySkipsPercentage) &&
		floatPtrEqual(a.PracticeSkipsPercentage, b.PracticeSkipsPercentage)
}

// AttendanceChange is a detected difference between the last stored
// attendance record and a freshly fetched one. Previous is nil on the first
// ever observation of the lesson.
type AttendanceChange struct {
	Previous *AttendanceRecord
	Current  AttendanceRecord
}

// IsFirstObservation reports whether no prior record existed.
func (c AttendanceChange) IsFirstObservation() bool {
	return c.Previous == nil
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
