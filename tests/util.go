package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/evaluation"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
)

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB returns an empty in-memory database.
func PrepareDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateEvaluation validates ne then stores it through svc.
func CreateEvaluation(t *testing.T, svc *evaluation.Service, ne evaluation.NewEvaluation) evaluation.Evaluation {
	t.Helper()
	validate, _ := NewValidator()
	if err := ne.Validate(validate); err != nil {
		t.Fatalf("CreateEvaluation() invalid: %v", err)
	}
	e, err := svc.Create(context.Background(), ne)
	if err != nil {
		t.Fatalf("CreateEvaluation() failed: %v", err)
	}
	return e
}
