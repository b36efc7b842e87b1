package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/futig/docs-assistant/internal/entity"
	playground "github.com/go-playground/validator/v10"
)

// Validator checks pipeline configuration records and questions.
type Validator struct {
	validate *playground.Validate
	maxTopK  int
}

func New(maxTopK int) *Validator {
	return &Validator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
		maxTopK:  maxTopK,
	}
}

// ValidateConfiguration requires every field to be present and topK to lie in [1, maxTopK].
func (v *Validator) ValidateConfiguration(cfg *entity.Configuration) error {
	trimmed := entity.Configuration{
		GenerativeAPIKey: strings.TrimSpace(cfg.GenerativeAPIKey),
		VectorAPIKey:     strings.TrimSpace(cfg.VectorAPIKey),
		IndexName:        strings.TrimSpace(cfg.IndexName),
		TopK:             cfg.TopK,
	}

	var problems []string

	if err := v.validate.Struct(&trimmed); err != nil {
		var fieldErrs playground.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", entity.ErrInvalidConfiguration, err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
		}
	}

	if v.maxTopK > 0 && cfg.TopK > v.maxTopK {
		problems = append(problems, fmt.Sprintf("top_k must be at most %d", v.maxTopK))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrInvalidConfiguration, strings.Join(problems, "; "))
	}

	return nil
}

// ValidateQuestion rejects empty and whitespace-only questions.
func (v *Validator) ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("%w: question is empty", entity.ErrInvalidInput)
	}
	return nil
}

func describe(fe playground.FieldError) string {
	name := fieldNames[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

var fieldNames = map[string]string{
	"GenerativeAPIKey": "generative_api_key",
	"VectorAPIKey":     "vector_api_key",
	"IndexName":        "index_name",
	"TopK":             "top_k",
}
