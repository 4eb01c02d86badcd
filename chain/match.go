package chain

import (
	"encoding/json"
	"regexp"

	"github.com/google/jsonschema-go/jsonschema"
)

// MatchAll matches every request. Useful as the last link of a chain to
// give otherwise-unclaimed requests a catch-all owner.
func MatchAll() Predicate {
	return func(Request) bool { return true }
}

// MatchTag matches requests whose tag equals tag exactly.
func MatchTag(tag string) Predicate {
	return func(req Request) bool { return req.Tag == tag }
}

// MatchAnyTag matches requests whose tag is any of tags.
func MatchAnyTag(tags ...string) Predicate {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return func(req Request) bool {
		_, ok := set[req.Tag]
		return ok
	}
}

// MatchPattern matches requests whose tag matches re.
func MatchPattern(re *regexp.Regexp) Predicate {
	return func(req Request) bool { return re.MatchString(req.Tag) }
}

// MatchPayload matches requests whose JSON payload validates against the
// resolved schema. Requests without a payload, or with a payload that is
// not valid JSON, never match.
func MatchPayload(schema *jsonschema.Resolved) Predicate {
	return func(req Request) bool {
		if len(req.Payload) == 0 {
			return false
		}
		var value any
		if err := json.Unmarshal(req.Payload, &value); err != nil {
			return false
		}
		return schema.Validate(value) == nil
	}
}
