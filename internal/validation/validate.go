// Package validation checks extracted portfolio records before they are written out.
// Validators accept loosely-typed input (decoded JSON or the typed records) and never panic.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/portfolio-migrator/internal/types"
)

// Result is the outcome of a validation. IsValid is true exactly when Errors is empty.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newResult(errs, warnings []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

var (
	validate     = validator.New()
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	socialPlatforms = []string{"linkedin", "twitter", "github", "instagram"}
)

// ValidateProject checks a single project record.
func ValidateProject(record any) Result {
	p, ok := asObject(record)
	if !ok {
		return newResult([]string{"Project must be an object"}, nil)
	}

	var errs, warnings []string

	if id, isNum := number(p["id"]); !isNum || id == 0 {
		errs = append(errs, "Project ID is required and must be a number")
	}
	for _, field := range []string{"title", "description", "image"} {
		if !nonEmptyString(p[field]) {
			errs = append(errs, fmt.Sprintf("Project %s is required and must be a non-empty string", field))
		}
	}

	if truthy(p["technologies"]) && !isArray(p["technologies"]) {
		errs = append(errs, "Project technologies must be an array")
	}
	if truthy(p["liveUrl"]) && !validURL(p["liveUrl"]) {
		warnings = append(warnings, "Project live URL should be a valid URL")
	}
	if truthy(p["githubUrl"]) && !validURL(p["githubUrl"]) {
		warnings = append(warnings, "Project GitHub URL should be a valid URL")
	}
	if truthy(p["category"]) && !isString(p["category"]) {
		warnings = append(warnings, "Project category should be a string")
	}

	return newResult(errs, warnings)
}

// ValidatePersonalInfo checks the owner record.
func ValidatePersonalInfo(record any) Result {
	p, ok := asObject(record)
	if !ok {
		return newResult([]string{"Personal info must be an object"}, nil)
	}

	var errs, warnings []string

	for _, field := range []struct{ key, label string }{
		{"name", "Name"}, {"title", "Title"}, {"bio", "Bio"},
	} {
		if !nonEmptyString(p[field.key]) {
			errs = append(errs, field.label+" is required and must be a non-empty string")
		}
	}
	if email, isStr := stringValue(p["email"]); !isStr || !emailPattern.MatchString(email) {
		errs = append(errs, "Valid email is required")
	}

	if truthy(p["phone"]) && !isString(p["phone"]) {
		warnings = append(warnings, "Phone should be a string")
	}
	if truthy(p["location"]) && !isString(p["location"]) {
		warnings = append(warnings, "Location should be a string")
	}

	if truthy(p["socialLinks"]) {
		links, isObj := asObject(p["socialLinks"])
		if !isObj {
			errs = append(errs, "Social links must be an object")
		} else {
			for _, platform := range socialPlatforms {
				if truthy(links[platform]) && !validURL(links[platform]) {
					warnings = append(warnings, platform+" URL should be a valid URL")
				}
			}
		}
	}

	return newResult(errs, warnings)
}

// ValidateSkill checks a single skill record.
func ValidateSkill(record any) Result {
	s, ok := asObject(record)
	if !ok {
		return newResult([]string{"Skill must be an object"}, nil)
	}

	var errs, warnings []string

	if !nonEmptyString(s["name"]) {
		errs = append(errs, "Skill name is required and must be a non-empty string")
	}
	if category, isStr := stringValue(s["category"]); !isStr || !types.SkillCategory(category).Valid() {
		names := make([]string, len(types.SkillCategories))
		for i, c := range types.SkillCategories {
			names[i] = string(c)
		}
		errs = append(errs, "Skill category must be one of: "+strings.Join(names, ", "))
	}

	if raw, present := s["proficiency"]; present {
		if v, isNum := number(raw); !isNum || v < 0 || v > 100 {
			warnings = append(warnings, "Skill proficiency should be a number between 0 and 100")
		}
	}

	return newResult(errs, warnings)
}

// ValidateProjects validates every project and rejects duplicate ids.
// Messages are prefixed with the 1-based position of the offending project.
func ValidateProjects(records any) Result {
	items, ok := asArray(records)
	if !ok {
		return newResult([]string{"Projects must be an array"}, nil)
	}

	var errs, warnings []string
	firstSeen := make(map[float64]int)

	for i, item := range items {
		prefix := fmt.Sprintf("Project %d: ", i+1)
		r := ValidateProject(item)
		errs = appendPrefixed(errs, prefix, r.Errors)
		warnings = appendPrefixed(warnings, prefix, r.Warnings)

		obj, _ := asObject(item)
		id, isNum := number(obj["id"])
		if !isNum || id == 0 {
			continue
		}
		if first, dup := firstSeen[id]; dup {
			errs = append(errs, fmt.Sprintf("%sDuplicate project ID %v (also used by project %d)", prefix, id, first))
			continue
		}
		firstSeen[id] = i + 1
	}

	return newResult(errs, warnings)
}

// ValidateSkills validates every skill, prefixing messages with its 1-based position.
func ValidateSkills(records any) Result {
	items, ok := asArray(records)
	if !ok {
		return newResult([]string{"Skills must be an array"}, nil)
	}

	var errs, warnings []string
	for i, item := range items {
		prefix := fmt.Sprintf("Skill %d: ", i+1)
		r := ValidateSkill(item)
		errs = appendPrefixed(errs, prefix, r.Errors)
		warnings = appendPrefixed(warnings, prefix, r.Warnings)
	}
	return newResult(errs, warnings)
}

// ToRecord converts a typed value into the loose form validators see after JSON decoding.
func ToRecord(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return out, nil
}

func appendPrefixed(dst []string, prefix string, msgs []string) []string {
	for _, m := range msgs {
		dst = append(dst, prefix+m)
	}
	return dst
}

// asObject returns v as a string-keyed map. Structs and pointers to structs are
// converted through ToRecord.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && !(rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String) {
		return nil, false
	}
	rec, err := ToRecord(v)
	if err != nil {
		return nil, false
	}
	m, ok := rec.(map[string]any)
	return m, ok
}

// asArray returns the elements of any slice or array, nil slices included.
func asArray(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func isArray(v any) bool {
	_, ok := asArray(v)
	return ok
}

// stringValue accepts string and any named string type.
func stringValue(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func isString(v any) bool {
	_, ok := stringValue(v)
	return ok
}

func nonEmptyString(v any) bool {
	s, ok := stringValue(v)
	return ok && strings.TrimSpace(s) != ""
}

func validURL(v any) bool {
	s, ok := stringValue(v)
	return ok && validate.Var(s, "url") == nil
}

// number accepts every numeric kind plus json.Number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// truthy mirrors what counts as "provided" for optional fields: nil, false,
// zero and the empty string are absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if str, ok := stringValue(v); ok {
		return str != ""
	}
	if n, ok := number(v); ok {
		return n != 0
	}
	return true
}
