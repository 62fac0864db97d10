package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Following prompt design principles:
// 1. Specify the model's thinking order
// 2. Use markdown for structure
// 3. Assign clear roles
// 4. Use "Important" and "ALWAYS" for critical instructions
// 5. Be explicit about expected outputs

const eventFieldSchema = `{{
  "name": "string or null",
  "description": "string or null",
  "startDate": "YYYY-MM-DD or null",
  "endDate": "YYYY-MM-DD or null",
  "startTime": "HH:MM 24-hour or null",
  "endTime": "HH:MM 24-hour or null",
  "hoursVaryByDay": "boolean or null",
  "hoursNotes": "string or null",
  "venueName": "string or null",
  "venueAddress": "string or null",
  "venueCity": "string or null",
  "venueState": "2-letter US state code or null",
  "ticketUrl": "absolute URL or null",
  "ticketPriceMin": "number or null",
  "ticketPriceMax": "number or null",
  "imageUrl": "absolute URL or null"
}}`

// createSingleEventTemplate builds the strict-JSON prompt for extracting one
// event from a page.
func (sp *SystemPrompts) createSingleEventTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are an expert at extracting structured data about fairs, festivals, and public events from web page content.

# Your Task
Extract exactly ONE event from the provided content.

# Critical Requirements
1. **Output Format**: Return ONLY a single JSON object matching the schema below, with NO additional text
2. **Handle Missing Data**: Use null for any field not present in the content, NEVER guess or invent values
3. **Dates**: Normalize to YYYY-MM-DD; **Times**: normalize to 24-hour HH:MM
4. **Prices**: Bare non-negative numbers, no currency symbols; use 0 for free events
5. **URLs**: Absolute URLs only

# Output Schema
`+eventFieldSchema+`

**IMPORTANT**: Return ONLY the JSON object. No explanations, no markdown formatting, no additional text.`),

		schema.UserMessage(`**Page URL**: {page_url}
**Page Title**: {page_title}
{structured_hint}

**Page Content**:
{content}

Extract the event as a single JSON object only.`),
	)
}

// createMultiEventTemplate builds the prompt for pages that list many events.
// The model must answer with a JSON array even for a single event.
func (sp *SystemPrompts) createMultiEventTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are an expert at extracting structured data about fairs, festivals, and public events from web page content.

# Your Task
Extract EVERY distinct event found in the provided content. Listing pages frequently contain many events.

# Critical Requirements
1. **Output Format**: Return ONLY a JSON array of event objects, with NO additional text
2. **ALWAYS return an array**, even when the page contains a single event
3. **Handle Missing Data**: Use null for any field not present in the content, NEVER guess or invent values
4. **Dates**: Normalize to YYYY-MM-DD; **Times**: normalize to 24-hour HH:MM
5. **Prices**: Bare non-negative numbers, no currency symbols; use 0 for free events
6. **URLs**: Absolute URLs only
7. **No duplicates**: Merge repeated listings of the same event into one object

# Per-Event Schema
`+eventFieldSchema+`

**IMPORTANT**: Return ONLY the JSON array. No explanations, no markdown formatting, no additional text.`),

		schema.UserMessage(`**Page URL**: {page_url}
**Page Title**: {page_title}
{structured_hint}

**Page Content**:
{content}

Extract all events as a JSON array only.`),
	)
}
