package inmemdb

import (
	"sync"

	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/core/grade"
)

type (
	// DB keeps every table in memory; it backs the DEV and TEST environments.
	DB struct {
		evaluation *evaluationTable
		quota      *quotaTable
		grade      *gradeTable
		attendance *attendanceTable
	}

	evaluationTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*evaluation.Evaluation
	}

	quotaTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*evaluation.QuotaConfig
	}

	gradeTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*grade.Grade
	}

	attendanceTable struct {
		mutex sync.RWMutex
		seq   int
		table map[int]*attendance.Record
	}
)

func Open() (*DB, error) {
	db := &DB{
		evaluation: &evaluationTable{table: make(map[int]*evaluation.Evaluation)},
		quota:      &quotaTable{table: make(map[int]*evaluation.QuotaConfig)},
		grade:      &gradeTable{table: make(map[int]*grade.Grade)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Record)},
	}
	return db, nil
}
