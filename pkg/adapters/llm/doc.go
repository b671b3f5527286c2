// Package llm implements ports.TextGenerator on top of hosted model APIs.
//
// OpenAI and any OpenAI-compatible endpoint (Ollama exposes one under /v1)
// go through go-openai; Anthropic goes through go-anthropic. Breaker wraps
// any generator with a per-call timeout and a circuit breaker so that a
// failing delegate degrades into domain.ErrDelegateUnavailable quickly.
package llm
