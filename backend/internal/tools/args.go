package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"jobgraph/backend/pkg/errors"
)

// Argument shapes arriving from the agent runtime are untyped JSON mappings.
// Each tool decodes its mapping into one of these structs and validates it
// before any component is called, so the store only ever sees typed,
// well-formed arguments.

type processUserMessageArgs struct {
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type getJobRecommendationsArgs struct {
	UserID             string `json:"user_id" validate:"required"`
	RecommendationType string `json:"recommendation_type" validate:"omitempty,oneof=general resume interview skills"`
}

type entityArg struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	Observations []string `json:"observations" validate:"omitempty,dive,required"`
}

type createEntitiesArgs struct {
	UserID   string      `json:"user_id" validate:"required"`
	Entities []entityArg `json:"entities" validate:"required,min=1,dive"`
}

type relationArg struct {
	From string `json:"from" validate:"required"`
	Type string `json:"type" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type createRelationsArgs struct {
	UserID    string        `json:"user_id" validate:"required"`
	Relations []relationArg `json:"relations" validate:"required,min=1,dive"`
}

type addObservationsArgs struct {
	UserID       string   `json:"user_id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Observations []string `json:"observations" validate:"required,min=1,dive,required"`
}

type deleteEntitiesArgs struct {
	UserID string   `json:"user_id" validate:"required"`
	Names  []string `json:"names" validate:"required,min=1,dive,required"`
}

type deleteObservationsArgs struct {
	UserID       string   `json:"user_id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Observations []string `json:"observations" validate:"required,min=1,dive,required"`
}

type deleteRelationsArgs struct {
	UserID    string        `json:"user_id" validate:"required"`
	Relations []relationArg `json:"relations" validate:"required,min=1,dive"`
}

type readGraphArgs struct {
	UserID string `json:"user_id" validate:"required"`
}

type searchNodesArgs struct {
	UserID string `json:"user_id" validate:"required"`
	Query  string `json:"query" validate:"required"`
}

type openNodesArgs struct {
	UserID string   `json:"user_id" validate:"required"`
	Names  []string `json:"names" validate:"required,min=1,dive,required"`
}

var validate = validator.New()

// decodeArgs maps the raw argument mapping onto the typed struct and runs
// struct validation. Unknown fields are ignored; missing or mistyped fields
// come back as a single validation error naming the offending field.
func decodeArgs(raw map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return errors.NewValidation("arguments", err.Error())
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.NewValidation("arguments", err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			field := jsonFieldName(first.Namespace())
			return errors.NewValidation(field, describeTag(first))
		}
		return errors.NewValidation("arguments", err.Error())
	}
	return nil
}

// jsonFieldName turns a validator namespace like
// "createEntitiesArgs.Entities[0].Name" into a caller-facing field name.
func jsonFieldName(namespace string) string {
	parts := strings.SplitN(namespace, ".", 2)
	field := namespace
	if len(parts) == 2 {
		field = parts[1]
	}
	return toSnake(field)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s element(s)", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			// Underscore only at a lower-to-upper boundary, so acronym runs
			// like "ID" stay together.
			if i > 0 && (s[i-1] >= 'a' && s[i-1] <= 'z' || s[i-1] >= '0' && s[i-1] <= '9') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
