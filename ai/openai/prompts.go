package openai

import (
	"fmt"
	"strings"

	"github.com/tastetrail/tastetrail/ai"
)

const intentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "keyword": {
            "type": "string"
          },
          "locality": {
            "type": ["string", "null"]
          }
        },
        "required": ["keyword", "locality"],
        "additionalProperties": false
      }
    }
  },
  "required": ["steps"],
  "additionalProperties": false
}`

const intentPromptTemplate = `You are an intent parser for a restaurant search engine. Convert the given
natural-language query into an ordered list of search steps and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- Split the query into steps following the temporal order of the sentence ("then", "after", "rồi", "sau đó").
- "keyword" keeps the dish or activity plus descriptive adjectives. Drop filler words such as
  "tôi muốn", "kiếm", "tìm", "đi", "ăn", "uống", "ở", "tại", "khu vực", "I want", "find", "go".
- "locality" is the district for the step. Normalize colloquial names to one of: %s.
  If a step names no district, inherit the district mentioned elsewhere in the query
  (prefer the last one mentioned). If the whole query names no district, use null.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text
  outside the object.

Example:
Input: "Kiếm quán cơm tấm rồi đi cafe q3"
Output:
{
  "steps": [
    {"keyword": "cơm tấm", "locality": "Quận 3"},
    {"keyword": "cafe", "locality": "Quận 3"}
  ]
}

Example:
Input: "Ăn phở bò q1 xong qua bình thạnh uống trà sữa"
Output:
{
  "steps": [
    {"keyword": "phở bò", "locality": "Quận 1"},
    {"keyword": "trà sữa", "locality": "Bình Thạnh"}
  ]
}

Example (single intent, no district):
Input: "quán nhậu bình dân"
Output:
{
  "steps": [
    {"keyword": "quán nhậu bình dân", "locality": null}
  ]
}

Example (English, informal):
Input: "eat pho then get quiet coffee in district 1"
Output:
{
  "steps": [
    {"keyword": "pho", "locality": "Quận 1"},
    {"keyword": "quiet coffee", "locality": "Quận 1"}
  ]
}`

// buildSystemPrompt creates the system prompt with canonical locality names embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(intentPromptTemplate,
		intentResponseSchema,
		strings.Join(ai.Localities, ", "))
}
