package openai

import "fmt"

const summaryResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": { "type": "string" },
    "short_title": { "type": "string", "maxLength": 40 },
    "topic": { "type": "string" },
    "abstract": {
      "type": "array",
      "items": { "type": "string" },
      "minItems": 1
    },
    "analysis": { "type": "string" },
    "conclusion": { "type": "string" }
  },
  "required": ["title", "short_title", "topic", "abstract", "analysis", "conclusion"],
  "additionalProperties": false
}`

const summaryPromptTemplate = `You are a scientist and document analyst who has read a great many papers.
Your task is to read the provided text and produce a structured summary and analysis.
All information must be based on the content of the paper titled "%s".

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- "title" is the paper title; "short_title" is at most 40 characters.
- "topic" names the paper's main subject area.
- "abstract" is a bulleted list of the key points, one point per entry.
- "analysis" discusses the purpose, method, contributions, open directions,
  and any contradictory claims.
- "conclusion" states the paper's main conclusion or recommendation.
- Be concise, clear, and informative; a serious tone with a touch of wit is fine.
- No emoji.
- The JSON must parse without errors; no trailing commas, no extra keys, and no
  extraneous text outside the object.`

const answerSystemTemplate = `You are an assistant that answers questions about scientific papers.
Your task is to provide accurate and relevant information based on the paper titled "%s".
If the answer cannot be found in the given context, say "The paper does not appear to
contain the information needed to answer this question." Always keep a professional and
academic tone.`

// buildSummaryPrompt creates the summarizer system prompt for a paper title.
func buildSummaryPrompt(title string) string {
	return fmt.Sprintf(summaryPromptTemplate, title, summaryResponseSchema)
}

// buildAnswerPrompt creates the answerer system prompt for a paper title.
func buildAnswerPrompt(title string) string {
	return fmt.Sprintf(answerSystemTemplate, title)
}
