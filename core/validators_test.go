package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"notblank"`
	Date  string `json:"date" validate:"omitempty,isodate"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	tests := []struct {
		name    string
		in      sample
		wantErr map[string]string
	}{
		{name: "valid", in: sample{Title: "Examen 1", Date: "2024-03-15"}},
		{name: "valid without date", in: sample{Title: "Examen 1"}},
		{name: "blank title", in: sample{Title: "   "}, wantErr: map[string]string{"title": notBlankText}},
		{name: "bad date", in: sample{Title: "x", Date: "15/03/2024"}, wantErr: map[string]string{"date": isoDateText}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}
