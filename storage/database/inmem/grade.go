package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/grade"
)

type gradeRepository struct {
	db *gradeTable
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) UpsertGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, old := range repo.db.table {
		if old.StudentID == g.StudentID && old.EvaluationID == g.EvaluationID {
			g.ID = id
			g.CreatedAt = old.CreatedAt
			repo.db.table[id] = &g
			return g, nil
		}
	}
	repo.db.seq++
	g.ID = repo.db.seq
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) FilterGrades(_ context.Context, evaluationIDs ...int) ([]grade.Grade, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[int]bool, len(evaluationIDs))
	for _, id := range evaluationIDs {
		wanted[id] = true
	}
	grades := make([]grade.Grade, 0)
	for _, g := range repo.db.table {
		if wanted[g.EvaluationID] {
			grades = append(grades, *g)
		}
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].EvaluationID != grades[j].EvaluationID {
			return grades[i].EvaluationID < grades[j].EvaluationID
		}
		return grades[i].StudentID < grades[j].StudentID
	})
	return grades, nil
}
