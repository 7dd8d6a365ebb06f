package extractor

import (
	"fmt"
	"time"

	"alfred/internal/history"
)

// BotName is how the assistant refers to itself inside prompts.
const BotName = "Alfred"

// TimeLayout is the fixed 24-hour, minute-resolution format the model is
// instructed to emit and the only layout the extractor accepts.
const TimeLayout = "2006-01-02 15:04"

// actionPrompt is the unified create-vs-modify parsing contract. The rules
// and worked examples are the actual business logic of the assistant: they
// pin down relative-date resolution, the 24-hour output format, reminder
// minute mapping, RRULE passthrough and the only-named-fields rule for
// modifications.
const actionPrompt = `Current date and time: %s
%s
You are %s's unified calendar request parser. Analyze the user's message and determine if they want to CREATE a new event or MODIFY an existing event.

User message: "%s"

Use the conversation context above to understand references like "it", "them", "that event", etc.
If the user refers to something mentioned earlier, use that information.

Based on the meaning of the message, return ONLY valid JSON (no markdown, no explanation):

FOR EVENT CREATION (scheduling new events):
{
  "action": "create",
  "events": [
    {
      "summary": "Brief, clear event title",
      "description": "Detailed description (optional)",
      "start_datetime": "YYYY-MM-DD HH:MM",
      "end_datetime": "YYYY-MM-DD HH:MM",
      "location": "Location if mentioned (optional)",
      "recurrence": "RRULE if recurring (optional)",
      "reminders": {
        "useDefault": false,
        "overrides": [{"method": "popup", "minutes": 60}]
      } (optional)
    }
  ]
}

FOR EVENT MODIFICATION (changing existing events):
{
  "action": "modify",
  "search_query": "what to search for (event name/keywords)",
  "updates": {
    "summary": "new title (if renaming)",
    "description": "new description (if changing)",
    "location": "new location (if changing)",
    "start_datetime": "YYYY-MM-DD HH:MM (if rescheduling)",
    "end_datetime": "YYYY-MM-DD HH:MM (if rescheduling)",
    "reminders": {
      "useDefault": false,
      "overrides": [{"method": "popup", "minutes": 60}]
    } (if adding/changing reminders)
  }
}

CREATION EXAMPLES:
"Meeting tomorrow at 3pm"
→ {"action": "create", "events": [{"summary": "Meeting", "start_datetime": "2026-02-18 15:00", "end_datetime": "2026-02-18 16:00"}]}

"Lunch with Sarah Friday at noon with 1 hour notification"
→ {"action": "create", "events": [{"summary": "Lunch with Sarah", "start_datetime": "2026-02-21 12:00", "end_datetime": "2026-02-21 13:00", "reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": 60}]}}]}

MODIFICATION EXAMPLES:
"Rename office hours to tutor hours"
→ {"action": "modify", "search_query": "office hours", "updates": {"summary": "Tutor Hours"}}

"Add a 1 hour notification to CSE 127 makeup office hours"
→ {"action": "modify", "search_query": "CSE 127 makeup office hours", "updates": {"reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": 60}]}}}

"Change team meeting location to Zoom"
→ {"action": "modify", "search_query": "team meeting", "updates": {"location": "Zoom"}}

IMPORTANT GUIDELINES:
- CREATE: User is scheduling something new ("meeting at...", "I have...", "schedule...")
- MODIFY: User is changing something existing ("rename...", "change...", "add notification to...", "update...")
- For CREATE: Parse dates/times relative to current date
- For CREATE: Use 24-hour format (13:00 for 1 PM)
- For CREATE: Create brief titles, put details in description
- For MODIFY: Only include fields being changed in "updates"
- Reminder minutes: "1 hour" = 60, "30 min" = 30, "15 minutes" = 15
- Recurrence format: MUST start with "RRULE:" prefix (e.g., "RRULE:FREQ=WEEKLY;BYDAY=MO;UNTIL=20260331T235959Z")

Now parse the message and return ONLY the JSON.`

// eventsPrompt is the standalone array contract used by the dry-run event
// parser. It predates the unified create/modify contract and only drafts
// events, never modifications.
const eventsPrompt = `Current date and time: %s

You are %s's calendar event parser. Extract calendar event details from natural language messages.
The user may address you as "%s" or use conversational language - focus on extracting the actual event details.

Message: "%s"

Return ONLY a valid JSON array with this exact structure (no markdown, no explanation, no extra text):
[
  {
    "summary": "Brief, clear event title",
    "description": "Detailed description of what will be discussed or done (optional)",
    "start_datetime": "YYYY-MM-DD HH:MM",
    "end_datetime": "YYYY-MM-DD HH:MM",
    "location": "Location if mentioned (optional)",
    "recurrence": "RRULE if recurring (optional)",
    "reminders": {
      "useDefault": false,
      "overrides": [
        {"method": "popup", "minutes": 60}
      ]
    } (optional - only if user mentions notifications/reminders)
  }
]

IMPORTANT RULES FOR TITLES & DESCRIPTIONS:
- Create a brief, professional title (2-5 words)
- Put details/context in the description field, not the title
- Example: "Meeting about buying new phone" → title: "Phone Purchase Meeting", description: "Discuss buying a new phone"

RECURRING EVENTS:
- If user says "every Monday", "weekly", "daily", etc., add recurrence field
- RRULE format examples:
  - Daily: "RRULE:FREQ=DAILY"
  - Weekly on Monday: "RRULE:FREQ=WEEKLY;BYDAY=MO"
  - Every weekday: "RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"
  - Monthly: "RRULE:FREQ=MONTHLY"

REMINDERS/NOTIFICATIONS:
- If user mentions "remind me", "notification", "alert", extract the time
- Examples: "1 hour notification" → 60 minutes, "30 min reminder" → 30 minutes
- Default method is "popup" for notifications
- Only include reminders field if explicitly mentioned

TIME PARSING:
- Parse relative dates: "tomorrow", "next Monday", "Wednesday", "Friday", etc.
- Parse time ranges: "1-2" means 1:00 PM to 2:00 PM, "from 3-5" means 3:00 PM to 5:00 PM
- If time format is "1-2", assume PM unless it's clearly morning (like "9-10" = AM)
- Use 24-hour format for datetime fields (13:00 for 1 PM)

Now parse the message above and return ONLY the JSON array.`

// buildActionPrompt assembles the unified parsing prompt.
func buildActionPrompt(now time.Time, entries []history.Entry, message string) string {
	return fmt.Sprintf(actionPrompt,
		now.Format("2006-01-02 15:04:05"),
		history.Format(entries, BotName),
		BotName,
		message,
	)
}

// buildEventsPrompt assembles the standalone array-contract prompt.
func buildEventsPrompt(now time.Time, message string) string {
	return fmt.Sprintf(eventsPrompt,
		now.Format("2006-01-02 15:04:05"),
		BotName,
		BotName,
		message,
	)
}
