package grade

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/evaluation"
)

type (
	Repository interface {
		// UpsertGrade creates or replaces the grade of (g.StudentID, g.EvaluationID).
		UpsertGrade(ctx context.Context, g Grade) (Grade, error)
		FilterGrades(ctx context.Context, evaluationIDs ...int) ([]Grade, error)
	}

	// Evaluations is the part of evaluation.Service grades depend on.
	Evaluations interface {
		Get(ctx context.Context, id int) (evaluation.Evaluation, error)
		Filter(ctx context.Context, filter evaluation.QueryFilter) ([]evaluation.Evaluation, error)
	}

	Service struct {
		repo       Repository
		evals      Evaluations
		classifier Classifier
		now        func() time.Time
	}
)

func NewService(repo Repository, evals Evaluations) *Service {
	return &Service{
		repo:       repo,
		evals:      evals,
		classifier: DefaultClassifier{},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClassifier replaces the scale used by reports.
func (svc *Service) WithClassifier(c Classifier) *Service {
	svc.classifier = c
	return svc
}

func checkScore(eval evaluation.Evaluation, ng NewGrade) error {
	if ng.Score != nil && *ng.Score > eval.MaxScore {
		msg := fmt.Sprintf("score must be between 0 and %s", core.FormatNumber(eval.MaxScore))
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: msg})
	}
	return nil
}

// Record grades students in one evaluation; the late penalty of the evaluation is
// applied to late submissions. No grade is stored unless every score is valid.
func (svc *Service) Record(ctx context.Context, evaluationID int, grades ...NewGrade) ([]Grade, error) {
	eval, err := svc.evals.Get(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	for _, ng := range grades {
		if err = checkScore(eval, ng); err != nil {
			return nil, err
		}
	}

	now := svc.now()
	res := make([]Grade, 0, len(grades))
	for _, ng := range grades {
		g := ng.grade(eval)
		g.CreatedAt = now
		g.UpdatedAt = now
		if g, err = svc.repo.UpsertGrade(ctx, g); err != nil {
			return nil, errors.Wrapf(err, "saving grade of student %d", ng.StudentID)
		}
		res = append(res, g)
	}
	return res, nil
}

// ByEvaluation lists the grades of an evaluation and summarizes their final scores.
func (svc *Service) ByEvaluation(ctx context.Context, evaluationID int) (EvaluationGrades, error) {
	eval, err := svc.evals.Get(ctx, evaluationID)
	if err != nil {
		return EvaluationGrades{}, err
	}
	grades, err := svc.repo.FilterGrades(ctx, evaluationID)
	if err != nil {
		return EvaluationGrades{}, errors.Wrap(err, "filtering grades")
	}
	scores := make([]*float64, 0, len(grades))
	for _, g := range grades {
		scores = append(scores, g.Final())
	}
	return EvaluationGrades{
		Evaluation: eval,
		Grades:     grades,
		Stats:      Summarize(scores, eval.MinPassing),
	}, nil
}

// SubjectReport computes the weighted average of every graded student over the active
// published evaluations of a subject. A non-zero year scopes the evaluations to it.
func (svc *Service) SubjectReport(ctx context.Context, subjectID, year int) (SubjectReport, error) {
	evals, err := svc.evals.Filter(ctx, evaluation.QueryFilter{SubjectID: subjectID, ActiveOnly: true, Year: year})
	if err != nil {
		return SubjectReport{}, errors.Wrap(err, "filtering evaluations")
	}
	published := make([]evaluation.Evaluation, 0, len(evals))
	ids := make([]int, 0, len(evals))
	for _, e := range evals {
		if e.Published {
			published = append(published, e)
			ids = append(ids, e.ID)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		if published[i].AssignedOn != published[j].AssignedOn {
			return published[i].AssignedOn < published[j].AssignedOn
		}
		return published[i].ID < published[j].ID
	})

	report := SubjectReport{
		SubjectID:   subjectID,
		Evaluations: published,
		Students:    []StudentReport{},
		MinPassing:  DefaultMinPassing,
	}
	if len(ids) == 0 {
		return report, nil
	}

	grades, err := svc.repo.FilterGrades(ctx, ids...)
	if err != nil {
		return SubjectReport{}, errors.Wrap(err, "filtering grades")
	}
	byStudent := make(map[int]map[int]Grade)
	for _, g := range grades {
		if byStudent[g.StudentID] == nil {
			byStudent[g.StudentID] = make(map[int]Grade)
		}
		byStudent[g.StudentID][g.EvaluationID] = g
	}
	students := make([]int, 0, len(byStudent))
	for id := range byStudent {
		students = append(students, id)
	}
	sort.Ints(students)

	for _, studentID := range students {
		sr := StudentReport{StudentID: studentID, Entries: make([]ReportEntry, 0, len(published))}
		weighted := make([]Weighted, 0, len(published))
		for _, e := range published {
			entry := ReportEntry{EvaluationID: e.ID}
			g, ok := byStudent[studentID][e.ID]
			if final := g.Final(); ok && final != nil {
				pct := core.RoundTo(*final/maxScore(e)*100, 2)
				entry.Score = final
				entry.Percent = &pct
				entry.Passed = *final >= e.MinPassing
				entry.Late = g.Late
				weighted = append(weighted, Weighted{Score: *final, MaxScore: e.MaxScore, Weight: e.WeightPercent})
			}
			entry.Color = svc.classifier.Color(entry.Percent, e.MinPassing/maxScore(e)*100)
			entry.Label = svc.classifier.Label(entry.Percent)
			sr.Entries = append(sr.Entries, entry)
		}
		sr.Average = WeightedAverage(weighted)
		report.Students = append(report.Students, sr)
	}
	return report, nil
}

func maxScore(e evaluation.Evaluation) float64 {
	if e.MaxScore > 0 {
		return e.MaxScore
	}
	return evaluation.DefaultMaxScore
}
