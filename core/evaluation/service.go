package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNotFound      = errors.New("evaluation not found")
	ErrQuotaNotFound = errors.New("quota config not found")
	ErrQuotaExceeded = errors.New("weight quota exceeded")
	ErrQuotaInUse    = errors.New("quota config is used by active evaluations")
)

// QuotaError carries the Allocation that refused an evaluation weight.
type QuotaError struct {
	Allocation Allocation
}

func (err *QuotaError) Error() string { return err.Allocation.Message }

func (err *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// QuotaSummary lists the quota configs of a subject and how much of 100% they commit.
type QuotaSummary struct {
	SubjectID int           `json:"subject_id"`
	Configs   []QuotaConfig `json:"configs"`
	Assigned  float64       `json:"assigned"`
	Available float64       `json:"available"`
}

type (
	Repository interface {
		CreateEvaluation(ctx context.Context, e Evaluation) (Evaluation, error)
		GetEvaluation(ctx context.Context, id int) (Evaluation, error)
		// FilterEvaluations applies AND operation on the QueryFilter fields.
		FilterEvaluations(ctx context.Context, filter QueryFilter) ([]Evaluation, error)
		UpdateEvaluation(ctx context.Context, e Evaluation) (Evaluation, error)
		DeleteEvaluation(ctx context.Context, id int) error

		// SetQuota creates or replaces the config of (qc.SubjectID, qc.TypeID).
		SetQuota(ctx context.Context, qc QuotaConfig) (QuotaConfig, error)
		GetQuota(ctx context.Context, id int) (QuotaConfig, error)
		QueryQuotas(ctx context.Context, subjectID int) ([]QuotaConfig, error)
		DeleteQuota(ctx context.Context, id int) error
	}

	Service struct {
		repo  Repository
		now   func() time.Time
		locks subjectLocks
	}
)

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		locks: subjectLocks{locks: make(map[int]*sync.Mutex)},
	}
}

// subjectLocks serializes the quota checks and the writes they guard, per subject.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// lock locks subjectID and returns its unlock func.
func (sl *subjectLocks) lock(subjectID int) func() {
	sl.mu.Lock()
	l, ok := sl.locks[subjectID]
	if !ok {
		l = new(sync.Mutex)
		sl.locks[subjectID] = l
	}
	sl.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Allocation computes how much of the subject's quota for typeID is used within trimesterID
// (0 for all trimesters) and whether requested still fits.
func (svc *Service) Allocation(ctx context.Context, subjectID, typeID, trimesterID int, requested float64) (Allocation, error) {
	return svc.allocation(ctx, subjectID, typeID, trimesterID, requested, 0)
}

func (svc *Service) allocation(ctx context.Context, subjectID, typeID, trimesterID int, requested float64, excludeID int) (Allocation, error) {
	evals, err := svc.repo.FilterEvaluations(ctx, QueryFilter{
		SubjectID:   subjectID,
		TypeID:      typeID,
		TrimesterID: trimesterID,
		ActiveOnly:  true,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return Allocation{}, errors.Wrap(err, "filtering evaluations")
	}
	configs, err := svc.repo.QueryQuotas(ctx, subjectID)
	if err != nil {
		return Allocation{}, errors.Wrap(err, "querying quotas")
	}
	max := MaxPercentFor(configs, subjectID, typeID)
	return Allocate(evals, typeID, requested, &max), nil
}

func (svc *Service) checkQuota(ctx context.Context, subjectID, typeID, trimesterID int, weight float64, excludeID int) error {
	alloc, err := svc.allocation(ctx, subjectID, typeID, trimesterID, weight, excludeID)
	if err != nil {
		return err
	}
	if !alloc.Available {
		return core.NewValidationError(
			&QuotaError{Allocation: alloc},
			core.FieldError{Field: "weight_percent", Error: alloc.Message},
		)
	}
	return nil
}

// Create stores a validated NewEvaluation once its weight fits the quota of its type.
func (svc *Service) Create(ctx context.Context, ne NewEvaluation) (Evaluation, error) {
	defer svc.locks.lock(ne.SubjectID)()

	if err := svc.checkQuota(ctx, ne.SubjectID, ne.TypeID, ne.TrimesterID, ne.WeightPercent, 0); err != nil {
		return Evaluation{}, err
	}
	now := svc.now()
	e := ne.evaluation()
	e.CreatedAt = now
	e.UpdatedAt = now
	return svc.repo.CreateEvaluation(ctx, e)
}

func (svc *Service) Get(ctx context.Context, id int) (Evaluation, error) {
	return svc.repo.GetEvaluation(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Evaluation, error) {
	return svc.repo.FilterEvaluations(ctx, filter)
}

// getLocked returns the evaluation id read while its subject is locked.
func (svc *Service) getLocked(ctx context.Context, id int) (Evaluation, func(), error) {
	e, err := svc.repo.GetEvaluation(ctx, id)
	if err != nil {
		return Evaluation{}, nil, err
	}
	unlock := svc.locks.lock(e.SubjectID)
	if e, err = svc.repo.GetEvaluation(ctx, id); err != nil {
		unlock()
		return Evaluation{}, nil, err
	}
	return e, unlock, nil
}

// Update replaces the evaluation id within its subject; its own weight is left out of the
// quota check. An inactive evaluation is not checked until it is activated again.
func (svc *Service) Update(ctx context.Context, id int, ne NewEvaluation) (Evaluation, error) {
	old, unlock, err := svc.getLocked(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	defer unlock()
	ne.SubjectID = old.SubjectID

	if old.Active {
		if err = svc.checkQuota(ctx, ne.SubjectID, ne.TypeID, ne.TrimesterID, ne.WeightPercent, id); err != nil {
			return Evaluation{}, err
		}
	}
	e := ne.evaluation()
	e.ID = id
	e.Active = old.Active
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = svc.now()
	return svc.repo.UpdateEvaluation(ctx, e)
}

// SetActive deactivates an evaluation, freeing its weight, or activates it again once its
// weight fits the quota of its type.
func (svc *Service) SetActive(ctx context.Context, id int, active bool) (Evaluation, error) {
	e, unlock, err := svc.getLocked(ctx, id)
	if err != nil {
		return Evaluation{}, err
	}
	defer unlock()

	if e.Active == active {
		return e, nil
	}
	if active {
		if err = svc.checkQuota(ctx, e.SubjectID, e.TypeID, e.TrimesterID, e.WeightPercent, id); err != nil {
			return Evaluation{}, err
		}
	}
	e.Active = active
	e.UpdatedAt = svc.now()
	return svc.repo.UpdateEvaluation(ctx, e)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteEvaluation(ctx, id)
}

// SetQuota configures the quota of a type within a subject. The quotas of all the
// subject's types may not sum above 100.
func (svc *Service) SetQuota(ctx context.Context, subjectID int, nq NewQuota) (QuotaConfig, error) {
	defer svc.locks.lock(subjectID)()

	configs, err := svc.repo.QueryQuotas(ctx, subjectID)
	if err != nil {
		return QuotaConfig{}, errors.Wrap(err, "querying quotas")
	}
	if ok, available := CheckSubjectQuota(configs, subjectID, nq.TypeID, nq.MaxPercent); !ok {
		msg := fmt.Sprintf("La suma de porcentajes excedería el 100%%. Porcentaje disponible: %s%%", core.FormatNumber(available))
		return QuotaConfig{}, core.NewValidationError(ErrQuotaExceeded, core.FieldError{Field: "max_percent", Error: msg})
	}
	return svc.repo.SetQuota(ctx, QuotaConfig{SubjectID: subjectID, TypeID: nq.TypeID, MaxPercent: nq.MaxPercent})
}

func (svc *Service) Quotas(ctx context.Context, subjectID int) (QuotaSummary, error) {
	configs, err := svc.repo.QueryQuotas(ctx, subjectID)
	if err != nil {
		return QuotaSummary{}, err
	}
	var assigned float64
	for _, c := range configs {
		assigned += c.MaxPercent
	}
	assigned = core.RoundTo(assigned, 2)
	return QuotaSummary{
		SubjectID: subjectID,
		Configs:   configs,
		Assigned:  assigned,
		Available: RemainingFor(assigned, 100),
	}, nil
}

// DeleteQuota removes a quota config unless active evaluations of its type depend on it.
func (svc *Service) DeleteQuota(ctx context.Context, id int) error {
	qc, err := svc.repo.GetQuota(ctx, id)
	if err != nil {
		return err
	}
	defer svc.locks.lock(qc.SubjectID)()

	evals, err := svc.repo.FilterEvaluations(ctx, QueryFilter{SubjectID: qc.SubjectID, TypeID: qc.TypeID, ActiveOnly: true})
	if err != nil {
		return errors.Wrap(err, "filtering evaluations")
	}
	if n := len(evals); n > 0 {
		msg := fmt.Sprintf("cannot delete the quota config: %d evaluations depend on it", n)
		return core.NewValidationError(ErrQuotaInUse, core.FieldError{Field: "id", Error: msg})
	}
	return svc.repo.DeleteQuota(ctx, id)
}
