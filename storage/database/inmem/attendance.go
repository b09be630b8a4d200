package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, r attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, old := range repo.db.table {
		if old.StudentID == r.StudentID && old.SubjectID == r.SubjectID && old.Date == r.Date {
			r.ID = id
			repo.db.table[id] = &r
			return r, nil
		}
	}
	repo.db.seq++
	r.ID = repo.db.seq
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *attendanceRepository) FilterRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, r := range repo.db.table {
		if filter.Match(*r) {
			recs = append(recs, *r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}
