// Package attendance records class attendance and reduces it to counters.
package attendance

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/datewindow"
)

type Record struct {
	ID        int    `json:"id" db:"id"`
	StudentID int    `json:"student_id" db:"student_id"`
	SubjectID int    `json:"subject_id" db:"subject_id"`
	Date      string `json:"date" db:"date"` // YYYY-MM-DD
	Present   bool   `json:"present" db:"present"`
	Justified bool   `json:"justified" db:"justified"` // only meaningful when absent
	Notes     string `json:"notes" db:"notes"`
}

// Summary counts attendance records. Justified only counts absences.
type Summary struct {
	Total       int `json:"total"`
	Present     int `json:"present"`
	Absent      int `json:"absent"`
	Justified   int `json:"justified"`
	Unjustified int `json:"unjustified"`
	PresentRate int `json:"present_rate"` // rounded percent
}

// Summarize reduces records to a Summary. An empty list yields a zero Summary.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case r.Present:
			s.Present++
		case r.Justified:
			s.Absent++
			s.Justified++
		default:
			s.Absent++
		}
	}
	s.Unjustified = s.Absent - s.Justified
	if s.Total > 0 {
		s.PresentRate = int(core.Round(float64(s.Present) / float64(s.Total) * 100))
	}
	return s
}

// DaySummary is the Summary of one class day.
type DaySummary struct {
	Date      string   `json:"date"`
	Trimester string   `json:"trimester"`
	Records   []Record `json:"records"`
	Summary
}

// GroupByDate summarizes records per day, newest day first.
// Records with an unparseable date are grouped under their raw value, last.
func GroupByDate(records []Record) []DaySummary {
	byDate := make(map[string][]Record)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	days := make([]DaySummary, 0, len(byDate))
	for date, recs := range byDate {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].StudentID < recs[j].StudentID })
		days = append(days, DaySummary{
			Date:      date,
			Trimester: TrimesterLabel(date),
			Records:   recs,
			Summary:   Summarize(recs),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		ti, iOK := datewindow.Parse(days[i].Date)
		tj, jOK := datewindow.Parse(days[j].Date)
		switch {
		case iOK && jOK && !ti.Equal(tj):
			return ti.After(tj)
		case iOK != jOK:
			return iOK
		}
		return days[i].Date > days[j].Date
	})
	return days
}

// TrimesterLabel names the school trimester of a date: January to April is the first,
// May to August the second and the rest of the year the third.
func TrimesterLabel(date string) string {
	t, ok := datewindow.Parse(date)
	if !ok {
		return ""
	}
	var name string
	switch m := t.Month(); {
	case m <= 4:
		name = "Primer Trimestre"
	case m <= 8:
		name = "Segundo Trimestre"
	default:
		name = "Tercer Trimestre"
	}
	return fmt.Sprintf("%s %d", name, t.Year())
}

// NewRecord contains information needed to record the attendance of one student.
type NewRecord struct {
	StudentID int    `json:"student_id" validate:"required,gt=0"`
	Present   bool   `json:"present"`
	Justified bool   `json:"justified"`
	Notes     string `json:"notes" validate:"max=500"`
}

// NewRoll records the attendance of a class on one date.
type NewRoll struct {
	Date    string      `json:"date" validate:"required,isodate"`
	Records []NewRecord `json:"records" validate:"required,min=1,dive"`
}

func (nr *NewRoll) Validate(validate *validator.Validate) error {
	nr.Date = core.CleanString(nr.Date)
	for i := range nr.Records {
		nr.Records[i].Notes = core.CleanString(nr.Records[i].Notes)
	}
	return validate.Struct(nr)
}

func (nr NewRoll) records(subjectID int) []Record {
	res := make([]Record, 0, len(nr.Records))
	for _, r := range nr.Records {
		res = append(res, Record{
			StudentID: r.StudentID,
			SubjectID: subjectID,
			Date:      nr.Date,
			Present:   r.Present,
			Justified: r.Justified && !r.Present,
			Notes:     r.Notes,
		})
	}
	return res
}
