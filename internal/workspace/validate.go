package workspace

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTitleLength = 200
	maxNameLength  = 120
	maxTagLength   = 64
)

// oneOf builds an ozzo In rule from an enum list.
func oneOf[T ~string](all []T) validation.Rule {
	vals := make([]any, 0, len(all))
	for _, v := range all {
		vals = append(vals, v)
	}
	return validation.In(vals...).Error("must be one of " + joinEnum(all))
}

func joinEnum[T ~string](all []T) string {
	parts := make([]string, 0, len(all))
	for _, v := range all {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, "|")
}

var tagRule = validation.Each(validation.Length(0, maxTagLength))

func validateTags(tags *[]string) error {
	if tags == nil {
		return nil
	}
	return validation.Validate(*tags, tagRule)
}

func invalid(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Op: op, Err: err}
}

// normalizeTags trims, drops empties and dedupes while keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// optionalID turns "" into nil.
func optionalID(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mergeFields applies a custom field patch; a nil value removes the key.
func mergeFields(dst, patch map[string]any) {
	for k, v := range patch {
		if v == nil {
			delete(dst, k)
			continue
		}
		dst[k] = v
	}
}
