package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yoklama/backend/internal/domain/obis"
)

const (
	noExamsMessage   = "У вас нет оценок за экзамены."
	noLessonsMessage = "У вас нет предметов."
)

// inflectSkips picks the Russian plural form of "пропуск" for a remaining
// count. The rule keys on the last two digits of the absolute value.
func inflectSkips(count int) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return "пропуск"
	}
	switch count % 10 {
	case 2, 3, 4:
		if count%100 < 12 || count%100 > 14 {
			return "пропуска"
		}
	}
	return "пропусков"
}

// formatPercentage renders a skip percentage the way the portal shows it:
// whole numbers keep a trailing ".0", absent values become "-".
func formatPercentage(v *float64) string {
	if v == nil {
		return "-"
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatRemaining(remaining *int) string {
	if remaining == nil {
		return "- пропусков"
	}
	return fmt.Sprintf("%d %s", *remaining, inflectSkips(*remaining))
}

func formatScore(score *string) string {
	if score == nil {
		return "-"
	}
	return *score
}

// FormatAttendanceChange renders the notification text for an updated
// attendance record. Must only be called with a non-first-observation
// change; the budget is computed from the current record.
func FormatAttendanceChange(change obis.AttendanceChange, budget obis.SkipBudget) string {
	previous := change.Previous
	current := change.Current
	return fmt.Sprintf(
		"<b>Ваша йоклама по предмету %s изменилась:\n</b>"+
			"%s → %s (осталось %s)\n"+
			"с %s → %s (осталось %s)",
		previous.LessonName,
		formatPercentage(previous.TheorySkipsPercentage),
		formatPercentage(current.TheorySkipsPercentage),
		formatRemaining(budget.Theory),
		formatPercentage(previous.PracticeSkipsPercentage),
		formatPercentage(current.PracticeSkipsPercentage),
		formatRemaining(budget.Practice),
	)
}

// FormatGradeChange renders the notification text for a grade change. First
// observations get a shorter "new grade" line.
func FormatGradeChange(change obis.GradeChange) string {
	if change.IsFirstObservation() {
		return fmt.Sprintf(
			"Новая оценка по предмету: %s - %s",
			change.Current.LessonName, formatScore(change.Current.Score),
		)
	}
	return fmt.Sprintf(
		"Ваша оценка по предмету %s изменилась: %s → %s",
		change.Current.LessonName,
		formatScore(change.Previous.Score), formatScore(change.Current.Score),
	)
}

// FormatAttendanceList renders the on-demand attendance overview. Lessons
// with no skip budget left are marked "❗", lessons one skip away "⚠️".
func FormatAttendanceList(records []obis.AttendanceRecord) string {
	var blocks []string
	for _, rec := range records {
		budget := obis.ComputeSkipBudget(rec)
		name := "<b>" + rec.LessonName + "</b>"
		switch {
		case budgetAtMost(budget, 0):
			name = "❗ " + name
		case budgetAtMost(budget, 1):
			name = "⚠️ " + name
		}
		blocks = append(blocks, fmt.Sprintf(
			"%s\nТеория: %s%% (осталось %s)\nПрактика: %s%% (осталось %s)",
			name,
			formatPercentage(rec.TheorySkipsPercentage), formatRemaining(budget.Theory),
			formatPercentage(rec.PracticeSkipsPercentage), formatRemaining(budget.Practice),
		))
	}
	if len(blocks) == 0 {
		return noLessonsMessage
	}
	return strings.Join(blocks, "\n\n")
}

// FormatExamsList renders the on-demand grade overview grouped by lesson.
func FormatExamsList(lessons []obis.LessonExams) string {
	var blocks []string
	for _, lesson := range lessons {
		lines := []string{fmt.Sprintf("<b>%s (%s)</b>", lesson.LessonName, lesson.LessonCode)}
		for _, exam := range lesson.Exams {
			lines = append(lines, fmt.Sprintf(" - %s: %s", exam.Name, formatScore(exam.Score)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(blocks) == 0 {
		return noExamsMessage
	}
	return strings.Join(blocks, "\n\n")
}

func budgetAtMost(budget obis.SkipBudget, n int) bool {
	return (budget.Theory != nil && *budget.Theory <= n) ||
		(budget.Practice != nil && *budget.Practice <= n)
}
