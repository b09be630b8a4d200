package evaluation

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

var (
	evalKindTag  = "evalkind"
	evalKindText = "kind must be one of deliverable, participation"

	evalTypeTag  = "evaltype"
	evalTypeText = "unknown evaluation type"

	dueAfterAssignedTag  = "dueafterassigned"
	dueAfterAssignedText = "due date cannot be before the assigned date"

	limitAfterDueTag  = "limitafterdue"
	limitAfterDueText = "limit date cannot be before the due date"

	minPassingTag  = "minpassinglte"
	minPassingText = "minimum passing score cannot exceed the maximum score"

	requiredTag = "required"
)

// InitValidators registers the evaluation validators on validate.
// core.InitValidators must have been called on it beforehand.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(evalKindTag, evalKindValidation)
	core.RegisterCustomTranslation(validate, translator, evalKindTag, evalKindText)

	_ = validate.RegisterValidation(evalTypeTag, evalTypeValidation)
	core.RegisterCustomTranslation(validate, translator, evalTypeTag, evalTypeText)

	validate.RegisterStructValidation(newEvaluationStructValidation, NewEvaluation{})
	core.RegisterCustomTranslation(validate, translator, dueAfterAssignedTag, dueAfterAssignedText)
	core.RegisterCustomTranslation(validate, translator, limitAfterDueTag, limitAfterDueText)
	core.RegisterCustomTranslation(validate, translator, minPassingTag, minPassingText)
}

// Custom Validators

func evalKindValidation(fl validator.FieldLevel) bool {
	if kind, ok := fl.Field().Interface().(Kind); ok {
		return kind.IsValid()
	}
	return false
}

func evalTypeValidation(fl validator.FieldLevel) bool {
	_, ok := TypeByID(int(fl.Field().Int()))
	return ok
}

// newEvaluationStructValidation checks the dates required by each kind and their ordering.
func newEvaluationStructValidation(sl validator.StructLevel) {
	ne, ok := sl.Current().Interface().(NewEvaluation)
	if !ok {
		return
	}

	switch ne.Kind {
	case KindDeliverable:
		if ne.AssignedOn == "" {
			sl.ReportError(ne.AssignedOn, "assigned_on", "AssignedOn", requiredTag, "")
		}
		if ne.DueOn == "" {
			sl.ReportError(ne.DueOn, "due_on", "DueOn", requiredTag, "")
		}
		// YYYY-MM-DD dates compare lexicographically
		if isDate(ne.AssignedOn) && isDate(ne.DueOn) && ne.DueOn < ne.AssignedOn {
			sl.ReportError(ne.DueOn, "due_on", "DueOn", dueAfterAssignedTag, "")
		}
		if isDate(ne.DueOn) && isDate(ne.LimitOn) && ne.LimitOn < ne.DueOn {
			sl.ReportError(ne.LimitOn, "limit_on", "LimitOn", limitAfterDueTag, "")
		}
	case KindParticipation:
		if ne.RecordedOn == "" {
			sl.ReportError(ne.RecordedOn, "recorded_on", "RecordedOn", requiredTag, "")
		}
	}

	if ne.MinPassing > ne.MaxScore {
		sl.ReportError(ne.MinPassing, "min_passing", "MinPassing", minPassingTag, "")
	}
}

func isDate(s string) bool {
	_, err := core.ParseDate(s)
	return err == nil
}
