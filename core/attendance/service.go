package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/datewindow"
)

type (
	QueryFilter struct {
		SubjectID int    `query:"-"`
		StudentID int    `query:"student"`
		From      string `query:"from"` // inclusive YYYY-MM-DD
		To        string `query:"to"`   // inclusive YYYY-MM-DD
	}

	Repository interface {
		// UpsertRecord creates or replaces the record of (r.StudentID, r.SubjectID, r.Date).
		UpsertRecord(ctx context.Context, r Record) (Record, error)
		FilterRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
	}

	// Report is the attendance of a subject over a date window.
	Report struct {
		SubjectID int          `json:"subject_id"`
		From      string       `json:"from"`
		To        string       `json:"to"`
		Summary   Summary      `json:"summary"`
		Days      []DaySummary `json:"days"`
	}

	Service struct {
		repo Repository
	}
)

// Match applies the filter in memory.
func (qf QueryFilter) Match(r Record) bool {
	switch {
	case qf.SubjectID != 0 && r.SubjectID != qf.SubjectID,
		qf.StudentID != 0 && r.StudentID != qf.StudentID:
		return false
	}
	return datewindow.InRange(r.Date, qf.From, qf.To)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record saves the roll call of a subject; a student already recorded on that date is overwritten.
func (svc *Service) Record(ctx context.Context, subjectID int, roll NewRoll) ([]Record, error) {
	recs := roll.records(subjectID)
	res := make([]Record, 0, len(recs))
	for _, r := range recs {
		saved, err := svc.repo.UpsertRecord(ctx, r)
		if err != nil {
			return nil, errors.Wrapf(err, "saving attendance of student %d", r.StudentID)
		}
		res = append(res, saved)
	}
	return res, nil
}

// Report summarizes the attendance of a subject. Without bounds the window is the current
// calendar year.
func (svc *Service) Report(ctx context.Context, filter QueryFilter) (Report, error) {
	if filter.From == "" && filter.To == "" {
		filter.From, filter.To = datewindow.YearBounds(datewindow.CurrentYear())
	}
	recs, err := svc.repo.FilterRecords(ctx, filter)
	if err != nil {
		return Report{}, errors.Wrap(err, "filtering attendance")
	}
	return Report{
		SubjectID: filter.SubjectID,
		From:      filter.From,
		To:        filter.To,
		Summary:   Summarize(recs),
		Days:      GroupByDate(recs),
	}, nil
}
