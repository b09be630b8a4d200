package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/attendance"
)

const attendanceColumns = `id, student_id, subject_id, date::text AS date, present, justified, notes`

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	q := `INSERT INTO attendance (student_id, subject_id, date, present, justified, notes)
	VALUES (:student_id, :subject_id, :date, :present, :justified, :notes)
	ON CONFLICT (student_id, subject_id, date) DO UPDATE SET present = EXCLUDED.present,
		justified = EXCLUDED.justified, notes = EXCLUDED.notes
	RETURNING id`

	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "preparing attendance upsert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &r.ID, r); err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance")
	}
	return r, nil
}

func (repo attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	w := new(where)
	if filter.SubjectID != 0 {
		w.add("subject_id = ?", filter.SubjectID)
	}
	if filter.StudentID != 0 {
		w.add("student_id = ?", filter.StudentID)
	}
	if filter.From != "" {
		w.add("date >= ?::date", filter.From)
	}
	if filter.To != "" {
		w.add("date <= ?::date", filter.To)
	}

	recs := make([]attendance.Record, 0)
	q := `SELECT ` + attendanceColumns + ` FROM attendance` + w.String() + ` ORDER BY id`
	if err := repo.db.SelectContext(ctx, &recs, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	return recs, nil
}
