// Package validation checks request bodies field by field and reports the
// first failing rule as a readable message.
//
// Fields are checked in the order they are declared, and each field's rules
// run in order. Rules other than Required skip fields that are absent or
// empty.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/HaBsawy/creiden-task/internal/apperr"
)

var validate = validator.New()

// Input is a decoded JSON object body.
type Input map[string]any

// Decode reads a JSON object from r. A body that is empty or is not a JSON
// object decodes to an empty Input, so required rules report it.
func Decode(r io.Reader) Input {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var in Input
	if err := dec.Decode(&in); err != nil || in == nil {
		return Input{}
	}
	return in
}

// Has reports whether field was sent with a non-empty value.
func (in Input) Has(field string) bool {
	return !isEmpty(in[field])
}

// String returns the field as a string, or "" when it is absent or not a
// string.
func (in Input) String(field string) string {
	s, _ := in[field].(string)
	return s
}

// ID returns the field as a positive integer id. Numeric strings and Go
// integers are accepted alongside JSON numbers.
func (in Input) ID(field string) (int64, bool) {
	return toID(in[field])
}

// Field pairs an input field with its ordered rules.
type Field struct {
	Name  string
	Rules []Rule
}

func F(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Rule checks one value. It returns a non-empty message when the value
// fails, and an error only when the check itself could not run.
type Rule struct {
	implicit bool
	check    func(ctx context.Context, label string, value any, in Input, field string) (string, error)
}

// Check runs fields against in and returns an apperr validation error for
// the first failure.
func Check(ctx context.Context, in Input, fields ...Field) error {
	for _, f := range fields {
		value := in[f.Name]
		label := Label(f.Name)
		for _, rule := range f.Rules {
			if !rule.implicit && isEmpty(value) {
				continue
			}
			msg, err := rule.check(ctx, label, value, in, f.Name)
			if err != nil {
				return apperr.Unexpected("validate "+f.Name, err)
			}
			if msg != "" {
				return apperr.Validation(msg)
			}
		}
	}
	return nil
}

// Label turns a field name into the form used in messages: user_id
// becomes "user id".
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func Required() Rule {
	return Rule{implicit: true, check: func(_ context.Context, label string, value any, _ Input, _ string) (string, error) {
		if isEmpty(value) {
			return fmt.Sprintf("The %s field is required.", label), nil
		}
		return "", nil
	}}
}

func String() Rule {
	return Rule{check: func(_ context.Context, label string, value any, _ Input, _ string) (string, error) {
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("The %s must be a string.", label), nil
		}
		return "", nil
	}}
}

// Between bounds the length of a string in characters.
func Between(lo, hi int) Rule {
	tag := fmt.Sprintf("min=%d,max=%d", lo, hi)
	return Rule{check: func(_ context.Context, label string, value any, _ Input, _ string) (string, error) {
		if validate.Var(stringOf(value), tag) != nil {
			return fmt.Sprintf("The %s must be between %d and %d characters.", label, lo, hi), nil
		}
		return "", nil
	}}
}

func Min(n int) Rule {
	tag := "min=" + strconv.Itoa(n)
	return Rule{check: func(_ context.Context, label string, value any, _ Input, _ string) (string, error) {
		if validate.Var(stringOf(value), tag) != nil {
			return fmt.Sprintf("The %s must be at least %d characters.", label, n), nil
		}
		return "", nil
	}}
}

func Email() Rule {
	return Rule{check: func(_ context.Context, label string, value any, _ Input, _ string) (string, error) {
		s, ok := value.(string)
		if !ok || validate.Var(s, "email") != nil {
			return fmt.Sprintf("The %s must be a valid email address.", label), nil
		}
		return "", nil
	}}
}

// Confirmed requires <field>_confirmation to equal the field.
func Confirmed() Rule {
	return Rule{check: func(_ context.Context, label string, value any, in Input, field string) (string, error) {
		confirmation, ok := in[field+"_confirmation"]
		if !ok || stringOf(confirmation) != stringOf(value) {
			return fmt.Sprintf("The %s confirmation does not match.", label), nil
		}
		return "", nil
	}}
}

// Exists requires the value to be the id of an existing row.
func Exists(exists func(ctx context.Context, id int64) (bool, error)) Rule {
	return Rule{check: func(ctx context.Context, label string, value any, _ Input, _ string) (string, error) {
		invalid := InvalidMessage(label)
		id, ok := toID(value)
		if !ok {
			return invalid, nil
		}
		found, err := exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !found {
			return invalid, nil
		}
		return "", nil
	}}
}

// Unique requires that no other row already holds the string value.
func Unique(taken func(ctx context.Context, value string) (bool, error)) Rule {
	return Rule{check: func(ctx context.Context, label string, value any, _ Input, _ string) (string, error) {
		used, err := taken(ctx, stringOf(value))
		if err != nil {
			return "", err
		}
		if used {
			return TakenMessage(label), nil
		}
		return "", nil
	}}
}

// UniqueID is Unique for id-valued fields. Values that are not ids pass;
// Exists reports them.
func UniqueID(taken func(ctx context.Context, id int64) (bool, error)) Rule {
	return Rule{check: func(ctx context.Context, label string, value any, _ Input, _ string) (string, error) {
		id, ok := toID(value)
		if !ok {
			return "", nil
		}
		used, err := taken(ctx, id)
		if err != nil {
			return "", err
		}
		if used {
			return TakenMessage(label), nil
		}
		return "", nil
	}}
}

func TakenMessage(label string) string {
	return fmt.Sprintf("The %s has already been taken.", label)
}

func InvalidMessage(label string) string {
	return fmt.Sprintf("The selected %s is invalid.", label)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func stringOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toID(value any) (int64, bool) {
	var raw string
	switch v := value.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	case int:
		return int64(v), v > 0
	case int64:
		return v, v > 0
	default:
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
