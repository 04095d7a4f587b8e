package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

var skillSchema = Object(
	Required("name", String()),
	Required("level", Number().Rules("gte=0,lte=100")),
)

var testSchema = Object(
	Required("title", String()),
	Optional("description", String()),
	Required("date", ISODate()),
	Default("published", Boolean(), true),
	Optional("tags", Array(String())),
	Optional("skills", Array(skillSchema)),
	Optional("status", String().Rules("oneof=excellent good average")),
	Optional("email", String().Rules("email")),
)

func validationErrors(t *testing.T, err error) *siteerrors.ValidationErrors {
	t.Helper()
	require.Error(t, err)
	var ve *siteerrors.ValidationErrors
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestValidateAppliesDefaultsAndPassesThrough(t *testing.T) {
	raw := map[string]interface{}{
		"title": "Hello",
		"date":  "2024-01-15",
		"extra": "kept",
	}

	out, err := Validate(testSchema, raw)
	require.NoError(t, err)

	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, "2024-01-15", out["date"])
	assert.Equal(t, true, out["published"])
	assert.Equal(t, "kept", out["extra"])
	_, hasDescription := out["description"]
	assert.False(t, hasDescription)
	// the input map is not modified
	_, hasPublished := raw["published"]
	assert.False(t, hasPublished)
}

func TestValidateExplicitFalseOverridesDefault(t *testing.T) {
	out, err := Validate(testSchema, map[string]interface{}{
		"title": "Draft", "date": "2024-01-15", "published": false,
	})
	require.NoError(t, err)
	assert.Equal(t, false, out["published"])
}

func TestValidateReportsEveryField(t *testing.T) {
	_, err := Validate(testSchema, map[string]interface{}{
		"description": 42,
		"date":        "15/01/2024",
		"tags":        []interface{}{"go", 7},
		"status":      "great",
	})

	ve := validationErrors(t, err)
	assert.Equal(t, "required", ve.Field("title").Constraint)
	assert.Equal(t, "type", ve.Field("description").Constraint)
	assert.Equal(t, "isodate", ve.Field("date").Constraint)
	assert.Equal(t, "type", ve.Field("tags[1]").Constraint)
	assert.Equal(t, "oneof", ve.Field("status").Constraint)
	assert.Contains(t, ve.Field("status").Message, "excellent, good, average")
	assert.Len(t, ve.Fields, 5)
}

func TestValidateSkillLevelRange(t *testing.T) {
	tests := []struct {
		name       string
		level      interface{}
		constraint string
	}{
		{"zero passes", 0, ""},
		{"hundred passes", 100, ""},
		{"float inside passes", 87.5, ""},
		{"above range fails", 150, "lte"},
		{"below range fails", -1, "gte"},
		{"string fails type", "high", "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(testSchema, map[string]interface{}{
				"title":  "x",
				"date":   "2024-01-01",
				"skills": []interface{}{map[string]interface{}{"name": "X", "level": tt.level}},
			})
			if tt.constraint == "" {
				assert.NoError(t, err)
				return
			}
			ve := validationErrors(t, err)
			fe := ve.Field("skills[0].level")
			require.NotNil(t, fe)
			assert.Equal(t, tt.constraint, fe.Constraint)
		})
	}
}

func TestValidateNestedYAMLv2Maps(t *testing.T) {
	out, err := Validate(testSchema, map[string]interface{}{
		"title": "x",
		"date":  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"skills": []interface{}{
			map[interface{}]interface{}{"name": "Go", "level": 80},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", out["date"])
	skills := out["skills"].([]interface{})
	require.Len(t, skills, 1)
	assert.Equal(t, map[string]interface{}{"name": "Go", "level": 80}, skills[0])
}

func TestValidateEmailRule(t *testing.T) {
	_, err := Validate(testSchema, map[string]interface{}{
		"title": "x", "date": "2024-01-01", "email": "not-an-email",
	})
	ve := validationErrors(t, err)
	assert.Equal(t, "email", ve.Field("email").Constraint)
}

func TestValidatePath(t *testing.T) {
	pathSchema := Object(Required("slug", Path()))

	for _, ok := range []string{"posts", "member/jane-doe", "blog/2024/post-a"} {
		_, err := Validate(pathSchema, map[string]interface{}{"slug": ok})
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "/blog/a", "blog/", "blog//a", "blog/../a"} {
		_, err := Validate(pathSchema, map[string]interface{}{"slug": bad})
		assert.Error(t, err, bad)
	}
}

func TestValidateIntegerKind(t *testing.T) {
	s := Object(Optional("order", Integer()))

	_, err := Validate(s, map[string]interface{}{"order": 3})
	assert.NoError(t, err)
	_, err = Validate(s, map[string]interface{}{"order": 3.0})
	assert.NoError(t, err)
	_, err = Validate(s, map[string]interface{}{"order": 3.5})
	assert.Error(t, err)
}

func TestValidateIsDeterministic(t *testing.T) {
	raw := map[string]interface{}{"status": "bad", "tags": "not-a-list"}

	_, err1 := Validate(testSchema, raw)
	_, err2 := Validate(testSchema, raw)
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestValidateNeedsObject(t *testing.T) {
	_, err := Validate(String(), map[string]interface{}{})
	assert.Error(t, err)
}

func TestRulesReturnsCopy(t *testing.T) {
	base := Number()
	ranged := base.Rules("gte=0")

	_, err := ValidateValue(base, "n", -5)
	assert.NoError(t, err)
	_, err = ValidateValue(ranged, "n", -5)
	assert.Error(t, err)
}

func TestValidateKeepsDateStrings(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"plain", "2024-01-15"},
		{"padded", " 2024-01-15 "},
		{"rfc3339", "2024-01-15T08:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Validate(testSchema, map[string]interface{}{"title": "Hello", "date": tt.date})
			require.NoError(t, err)
			assert.Equal(t, tt.date, out["date"])
		})
	}
}
