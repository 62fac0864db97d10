package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
)

// SystemPrompts contains the prompt templates used by the AI extractor
type SystemPrompts struct {
	// SingleEvent expects exactly one JSON object in the response
	SingleEvent prompt.ChatTemplate
	// MultiEvent expects a JSON array, even when only one event is present
	MultiEvent prompt.ChatTemplate
}

// NewSystemPrompts creates and initializes all prompt templates
func NewSystemPrompts() *SystemPrompts {
	sp := &SystemPrompts{}
	sp.SingleEvent = sp.createSingleEventTemplate()
	sp.MultiEvent = sp.createMultiEventTemplate()
	return sp
}
