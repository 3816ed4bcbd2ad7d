// Package llm adapts the OpenAI chat completions API to the single
// Generate call the content pipeline needs.
//
// Each call is one attempt: SDK retries are off and a per-request timeout
// bounds the wait. Failures are tagged with the services markers:
//
//	ErrConfiguration  missing API key
//	ErrValidation     empty model or prompt
//	ErrEmptyResponse  no choices or blank content
//	ErrTimeout        no answer before the deadline
//	ErrExternal       HTTP status errors and transport failures
//
// Images travel inline as base64 data URLs on the user turn.
//
// DecodeLLMJSON is for replies that are supposed to be JSON; it strips code
// fences and repairs malformed payloads before giving up.
package llm
