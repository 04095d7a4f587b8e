package schema

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// validate is safe for concurrent use; documents compile in parallel.
var validate = validator.New()

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Validate checks raw against an object type and returns the normalised
// record. On failure the error is a *errors.ValidationErrors listing every
// violated field.
func Validate(t *Type, raw map[string]interface{}) (map[string]interface{}, error) {
	if t.kind != KindObject {
		return nil, fmt.Errorf("schema: Validate needs an object type, got %s", t.kind)
	}

	ve := &siteerrors.ValidationErrors{}
	out := validateObject(t, raw, "", ve)
	if ve.HasErrors() {
		return nil, ve
	}
	return out, nil
}

// ValidateValue checks a single value, reporting under path.
func ValidateValue(t *Type, path string, value interface{}) (interface{}, error) {
	ve := &siteerrors.ValidationErrors{}
	out, ok := validateValue(t, path, value, ve)
	if !ok || ve.HasErrors() {
		return nil, ve
	}
	return out, nil
}

func validateObject(t *Type, raw map[string]interface{}, prefix string, ve *siteerrors.ValidationErrors) map[string]interface{} {
	out := make(map[string]interface{}, len(raw)+len(t.fields))
	for k, v := range raw {
		out[k] = v
	}

	for _, f := range t.fields {
		path := joinPath(prefix, f.Name)
		v, present := raw[f.Name]
		if !present || v == nil {
			delete(out, f.Name)
			switch {
			case f.hasDefault:
				out[f.Name] = f.Default
			case !f.Optional:
				ve.AddField(path, "required", nil, "is required")
			}
			continue
		}

		if nv, ok := validateValue(f.Type, path, v, ve); ok {
			out[f.Name] = nv
		}
	}
	return out
}

// validateValue returns the normalised value and whether its shape matched.
// Constraint failures are recorded but still count as a shape match.
func validateValue(t *Type, path string, v interface{}, ve *siteerrors.ValidationErrors) (interface{}, bool) {
	var out interface{}

	switch t.kind {
	case KindAny:
		out = v

	case KindString:
		s, ok := v.(string)
		if !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		out = s

	case KindNumber:
		if _, ok := toFloat(v); !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		out = v

	case KindInteger:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		out = v

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		out = b

	case KindISODate:
		s, ok := normaliseDate(v)
		if !ok {
			ve.Add(&siteerrors.FieldError{
				Path:       path,
				Constraint: "isodate",
				Value:      v,
				Message:    fmt.Sprintf("must be an ISO date (YYYY-MM-DD or RFC 3339), got %v", v),
			})
			return nil, false
		}
		out = s

	case KindPath:
		s, ok := v.(string)
		if !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		if msg := checkPath(s); msg != "" {
			ve.Add(&siteerrors.FieldError{Path: path, Constraint: "path", Value: v, Message: msg})
			return nil, false
		}
		out = s

	case KindArray:
		items, ok := toSlice(v)
		if !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		arr := make([]interface{}, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				ve.AddField(itemPath, "required", nil, "must not be null")
				continue
			}
			if nv, ok := validateValue(t.elem, itemPath, item, ve); ok {
				arr = append(arr, nv)
			}
		}
		out = arr

	case KindObject:
		m, ok := toMap(v)
		if !ok {
			typeMismatch(ve, path, t.kind, v)
			return nil, false
		}
		out = validateObject(t, m, path, ve)
	}

	if t.rules != "" {
		checkRules(t, path, out, ve)
	}
	return out, true
}

func checkRules(t *Type, path string, v interface{}, ve *siteerrors.ValidationErrors) {
	err := validate.Var(v, t.rules)
	if err == nil {
		return
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		ve.Add(&siteerrors.FieldError{Path: path, Constraint: "rules", Value: v, Message: err.Error()})
		return
	}
	for _, fe := range verrs {
		ve.Add(&siteerrors.FieldError{
			Path:       path,
			Constraint: fe.Tag(),
			Param:      fe.Param(),
			Value:      v,
			Message:    describe(t.kind, fe.Tag(), fe.Param(), v),
		})
	}
}

func describe(kind Kind, tag, param string, v interface{}) string {
	unit := ""
	switch kind {
	case KindString, KindPath:
		unit = " characters"
	case KindArray:
		unit = " items"
	}

	switch tag {
	case "gte", "min":
		return fmt.Sprintf("must be at least %s%s, got %v", param, unit, v)
	case "lte", "max":
		return fmt.Sprintf("must be at most %s%s, got %v", param, unit, v)
	case "gt":
		return fmt.Sprintf("must be greater than %s%s, got %v", param, unit, v)
	case "lt":
		return fmt.Sprintf("must be less than %s%s, got %v", param, unit, v)
	case "len":
		return fmt.Sprintf("must have length %s%s", param, unit)
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", strings.Join(strings.Fields(param), ", "), v)
	case "email":
		return fmt.Sprintf("must be a valid email address, got %v", v)
	case "url", "http_url":
		return fmt.Sprintf("must be a valid URL, got %v", v)
	case "required":
		return "is required"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s=%s", tag, param)
		}
		return fmt.Sprintf("failed %s", tag)
	}
}

func typeMismatch(ve *siteerrors.ValidationErrors, path string, want Kind, v interface{}) {
	ve.Add(&siteerrors.FieldError{
		Path:       path,
		Constraint: "type",
		Value:      v,
		Message:    fmt.Sprintf("expected %s, got %T", want, v),
	})
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func checkPath(s string) string {
	if s == "" {
		return "must not be empty"
	}
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") {
		return fmt.Sprintf("must not start or end with '/', got %q", s)
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Sprintf("has an empty or relative segment, got %q", s)
		}
	}
	return ""
}

func normaliseDate(v interface{}) (string, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
			return d.Format("2006-01-02"), true
		}
		return d.Format(time.RFC3339), true
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	}
	return "", false
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

func toSlice(v interface{}) ([]interface{}, bool) {
	if s, ok := v.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toMap accepts both yaml.v3 (string keys) and yaml.v2 (interface keys)
// mappings.
func toMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
