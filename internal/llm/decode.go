package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrNoJSON    = errors.New("no JSON object in model output")
	ErrMalformed = errors.New("malformed JSON in model output")
	ErrSchema    = errors.New("model output does not match expected shape")
)

// Schema is a compiled JSON Schema describing the object a prompt asks for.
type Schema struct {
	s *gojsonschema.Schema
}

// MustSchema compiles src and panics on an invalid schema. Schemas are package
// constants, so a failure is a programming error.
func MustSchema(src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("llm: invalid schema: %v", err))
	}
	return &Schema{s: s}
}

// CleanJSONBlock removes markdown code block wrappers from model output.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// ExtractObject returns the span from the first '{' to the last '}'.
func ExtractObject(text string) (string, error) {
	text = CleanJSONBlock(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// DecodeObject extracts the JSON object from model output, checks it against
// schema (nil skips the check) and decodes it into out.
func DecodeObject(text string, schema *Schema, out any) error {
	obj, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(obj)) {
		return ErrMalformed
	}
	if schema != nil {
		res, err := schema.s.Validate(gojsonschema.NewStringLoader(obj))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if !res.Valid() {
			msgs := make([]string, 0, len(res.Errors()))
			for _, e := range res.Errors() {
				msgs = append(msgs, e.String())
			}
			return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
		}
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// IsParseError reports whether err came from DecodeObject rather than the API.
func IsParseError(err error) bool {
	return errors.Is(err, ErrNoJSON) || errors.Is(err, ErrMalformed) || errors.Is(err, ErrSchema)
}
