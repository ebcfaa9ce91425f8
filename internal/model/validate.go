package model

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"kanban-cli/internal/dates"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed card.schema.json patch.schema.json
var schemaFS embed.FS

// FieldError is a local validation failure tied to one form field. It is raised before
// any request leaves the client.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const schemaBaseURL = "https://kanban.local/schemas/"

var (
	schemasOnce sync.Once
	createSch   *jsonschema.Schema
	patchSch    *jsonschema.Schema
	schemasErr  error
)

func loadSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	for _, name := range []string{"card.schema.json", "patch.schema.json"} {
		b, err := schemaFS.ReadFile(name)
		if err != nil {
			schemasErr = err
			return
		}
		if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(b)); err != nil {
			schemasErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}
	if createSch, schemasErr = compiler.Compile(schemaBaseURL + "card.schema.json"); schemasErr != nil {
		return
	}
	patchSch, schemasErr = compiler.Compile(schemaBaseURL + "patch.schema.json")
}

// ValidateFields checks a create payload: required fields, enum membership, date format
// and date ordering.
func ValidateFields(f CardFields) error {
	if err := validateAgainst(func() *jsonschema.Schema { return createSch }, f); err != nil {
		return err
	}
	return validateOrder(f.StartDate, f.EndDate)
}

// ValidatePatch checks a partial update. An empty patch is rejected.
func ValidatePatch(p CardPatch) error {
	if p.Empty() {
		return &FieldError{Message: "nothing to update"}
	}
	if err := validateAgainst(func() *jsonschema.Schema { return patchSch }, p); err != nil {
		return err
	}
	return validateOrder(p.StartDate, p.EndDate)
}

func validateAgainst(pick func() *jsonschema.Schema, v any) error {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return fmt.Errorf("compile card schema: %w", schemasErr)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if err := pick().Validate(doc); err != nil {
		return toFieldError(err)
	}
	return nil
}

func validateOrder(start, end *dates.Date) error {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(*start) {
		return &FieldError{Field: "end_date", Message: "end date is before start date"}
	}
	return nil
}

var missingPropRe = regexp.MustCompile(`'([a-z_]+)'`)

func toFieldError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &FieldError{Message: err.Error()}
	}
	leaf := firstLeaf(ve)
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if field == "" {
		if m := missingPropRe.FindStringSubmatch(leaf.Message); m != nil {
			field = m[1]
		}
	}
	return &FieldError{Field: field, Message: fieldMessage(field, leaf.Message)}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func fieldMessage(field, fallback string) string {
	switch field {
	case "title":
		return "title is required"
	case "issue_type":
		return "must be one of " + joinValues(IssueTypes)
	case "priority":
		return "must be one of " + joinValues(Priorities)
	case "column_name":
		return "must be one of todo, inprogress, done"
	case "start_date", "end_date":
		return "must be a date (YYYY-MM-DD)"
	}
	return fallback
}

func joinValues[T ~string](xs []T) string {
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		parts = append(parts, string(x))
	}
	return strings.Join(parts, ", ")
}
