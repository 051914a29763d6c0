// Package upstream sends completion requests to the upstream model
// provider. The Gateway interface decouples the chat handlers from the
// wire client; the production implementation speaks the OpenAI
// chat-completions format to OpenRouter. Failures are never retried
// here: the caller decides what a failed completion means.
package upstream
