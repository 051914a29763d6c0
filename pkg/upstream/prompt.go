package upstream

// ComposePrompt merges the system prompt and the user message into the
// single user-role message the upstream receives. The exact shape is load
// bearing: deployed prompts were written against it.
func ComposePrompt(systemPrompt, message string) string {
	if systemPrompt == "" {
		return message
	}
	return "System: " + systemPrompt + "\n\nUser: " + message
}
