package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/evaluation"
)

type evaluationRepository struct {
	evals  *evaluationTable
	quotas *quotaTable
}

func NewEvaluationRepository(db *DB) evaluation.Repository {
	return &evaluationRepository{evals: db.evaluation, quotas: db.quota}
}

func (repo *evaluationRepository) CreateEvaluation(_ context.Context, e evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.evals.mutex.Lock()
	defer repo.evals.mutex.Unlock()

	repo.evals.seq++
	e.ID = repo.evals.seq
	repo.evals.table[e.ID] = &e
	return e, nil
}

func (repo *evaluationRepository) GetEvaluation(_ context.Context, id int) (evaluation.Evaluation, error) {
	repo.evals.mutex.RLock()
	defer repo.evals.mutex.RUnlock()

	if e, ok := repo.evals.table[id]; ok {
		return *e, nil
	}
	return evaluation.Evaluation{}, evaluation.ErrNotFound
}

func (repo *evaluationRepository) FilterEvaluations(_ context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error) {
	repo.evals.mutex.RLock()
	defer repo.evals.mutex.RUnlock()

	evals := make([]evaluation.Evaluation, 0, len(repo.evals.table))
	for _, e := range repo.evals.table {
		if filter.Match(*e) {
			evals = append(evals, *e)
		}
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].ID < evals[j].ID })
	return evals, nil
}

func (repo *evaluationRepository) UpdateEvaluation(_ context.Context, e evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.evals.mutex.Lock()
	defer repo.evals.mutex.Unlock()

	if _, ok := repo.evals.table[e.ID]; !ok {
		return evaluation.Evaluation{}, evaluation.ErrNotFound
	}
	repo.evals.table[e.ID] = &e
	return e, nil
}

func (repo *evaluationRepository) DeleteEvaluation(_ context.Context, id int) error {
	repo.evals.mutex.Lock()
	defer repo.evals.mutex.Unlock()

	if _, ok := repo.evals.table[id]; !ok {
		return evaluation.ErrNotFound
	}
	delete(repo.evals.table, id)
	return nil
}

func (repo *evaluationRepository) SetQuota(_ context.Context, qc evaluation.QuotaConfig) (evaluation.QuotaConfig, error) {
	repo.quotas.mutex.Lock()
	defer repo.quotas.mutex.Unlock()

	for _, old := range repo.quotas.table {
		if old.SubjectID == qc.SubjectID && old.TypeID == qc.TypeID {
			old.MaxPercent = qc.MaxPercent
			return *old, nil
		}
	}
	repo.quotas.seq++
	qc.ID = repo.quotas.seq
	repo.quotas.table[qc.ID] = &qc
	return qc, nil
}

func (repo *evaluationRepository) GetQuota(_ context.Context, id int) (evaluation.QuotaConfig, error) {
	repo.quotas.mutex.RLock()
	defer repo.quotas.mutex.RUnlock()

	if qc, ok := repo.quotas.table[id]; ok {
		return *qc, nil
	}
	return evaluation.QuotaConfig{}, evaluation.ErrQuotaNotFound
}

func (repo *evaluationRepository) QueryQuotas(_ context.Context, subjectID int) ([]evaluation.QuotaConfig, error) {
	repo.quotas.mutex.RLock()
	defer repo.quotas.mutex.RUnlock()

	configs := make([]evaluation.QuotaConfig, 0)
	for _, qc := range repo.quotas.table {
		if qc.SubjectID == subjectID {
			configs = append(configs, *qc)
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].TypeID < configs[j].TypeID })
	return configs, nil
}

func (repo *evaluationRepository) DeleteQuota(_ context.Context, id int) error {
	repo.quotas.mutex.Lock()
	defer repo.quotas.mutex.Unlock()

	if _, ok := repo.quotas.table[id]; !ok {
		return evaluation.ErrQuotaNotFound
	}
	delete(repo.quotas.table, id)
	return nil
}
