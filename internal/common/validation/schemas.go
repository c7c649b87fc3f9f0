// internal/common/validation/schemas.go
package validation

const chatRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["messages"],
  "properties": {
    "messages": {
      "type": "array",
      "minItems": 1,
      "maxItems": 200,
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": {"type": "string", "enum": ["user", "assistant", "system"]},
          "content": {"type": "string", "maxLength": 4000}
        }
      },
      "contains": {
        "type": "object",
        "properties": {"role": {"const": "user"}}
      }
    }
  }
}`

const planSchema = `{
  "type": "object",
  "required": ["id", "name", "category"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "description": {"type": "string"},
    "rating": {"type": "number", "minimum": 0, "maximum": 5},
    "tags": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": ` + planSchema + `
}`

const recommendInputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["message"],
  "properties": {
    "message": {"type": "string"},
    "history": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": {"type": "string", "enum": ["user", "assistant", "system"]},
          "content": {"type": "string"}
        }
      }
    },
    "plans": {"type": "array", "items": ` + planSchema + `}
  }
}`

var (
	ChatRequest    = MustCompile("chat-request", chatRequestSchema)
	Catalog        = MustCompile("catalog", catalogSchema)
	RecommendInput = MustCompile("recommend-plans-input", recommendInputSchema)
)
