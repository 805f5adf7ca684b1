package portal

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yoklama/backend/internal/domain/obis"
)

// parseAttendancePage decodes the taken-lessons table. The page has one
// table; the first row is a header and data rows carry exactly nine cells.
// Returns nil when no table is present.
func parseAttendancePage(doc *goquery.Document) []obis.AttendanceRecord {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	records := []obis.AttendanceRecord{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() != 9 {
			return
		}
		records = append(records, obis.AttendanceRecord{
			LessonCode:              cellText(cells.Eq(1)),
			LessonName:              cellText(cells.Eq(2)),
			TheorySkipsPercentage:   parsePercentage(cells.Eq(4)),
			PracticeSkipsPercentage: parsePercentage(cells.Eq(6)),
		})
	})
	return records
}

// parseGradesPage decodes the taken-grades table. Each lesson starts with a
// five-cell row whose first cell carries a rowspan covering the lesson's
// exams; the remaining exam rows have two cells. The grades table is the
// last tbody on the page.
func parseGradesPage(doc *goquery.Document) []obis.LessonExams {
	bodies := doc.Find("tbody")
	if bodies.Length() == 0 {
		return nil
	}

	rows := bodies.Last().ChildrenFiltered("tr")
	total := rows.Length()

	var lessons []obis.LessonExams
	i := 0
	for i < total {
		cells := rows.Eq(i).ChildrenFiltered("td")
		if cells.Length() != 5 {
			i++
			continue
		}

		rowspan := 1
		if v, ok := cells.Eq(0).Attr("rowspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				rowspan = n
			}
		}

		lesson := obis.LessonExams{
			LessonCode: cellText(cells.Eq(1)),
			LessonName: cellText(cells.Eq(2)),
			Exams: []obis.Exam{{
				Name:  cellText(cells.Eq(3)),
				Score: optionalCellText(cells.Eq(4)),
			}},
		}

		for j := 1; j < rowspan && i+j < total; j++ {
			continuation := rows.Eq(i + j).ChildrenFiltered("td")
			if continuation.Length() != 2 {
				continue
			}
			lesson.Exams = append(lesson.Exams, obis.Exam{
				Name:  cellText(continuation.Eq(0)),
				Score: optionalCellText(continuation.Eq(1)),
			})
		}

		lessons = append(lessons, lesson)
		i += rowspan
	}
	return lessons
}

func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// optionalCellText returns nil for empty cells: an unpublished score is
// absent, not an empty string.
func optionalCellText(sel *goquery.Selection) *string {
	text := cellText(sel)
	if text == "" {
		return nil
	}
	return &text
}

// parsePercentage strips the "%" suffix and whitespace; anything that does
// not parse as a number becomes absent.
func parsePercentage(sel *goquery.Selection) *float64 {
	text := strings.Trim(sel.Text(), "% \t\r\n")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}
