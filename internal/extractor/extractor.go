package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/teambition/rrule-go"

	"alfred/internal/calendar"
	"alfred/internal/history"
	"alfred/internal/llm"
	"alfred/internal/logging"
)

// Action discriminates the two request shapes the model may return.
type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
)

// Request is a parsed calendar action. Exactly one of the two shapes is
// populated, selected by Action.
type Request struct {
	Action Action

	// Create shape
	Events []calendar.EventDraft

	// Modify shape
	SearchQuery string
	Updates     calendar.EventPatch
}

// Extractor turns free text into a Request via one model completion.
type Extractor struct {
	model  llm.Completer
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the current-time source, mainly for tests that pin
// relative-date resolution.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New creates an Extractor. loc is the timezone naive model timestamps are
// interpreted in.
func New(model llm.Completer, loc *time.Location, logger *slog.Logger, opts ...Option) *Extractor {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		model:  model,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// wire-level shapes; every field is optional at the boundary because the
// model cannot be trusted to honor the prompt's required annotations.
type rawRequest struct {
	Action      string      `json:"action"`
	Events      []rawEvent  `json:"events"`
	SearchQuery string      `json:"search_query"`
	Updates     *rawUpdates `json:"updates"`
}

type rawEvent struct {
	Summary       string        `json:"summary"`
	Description   string        `json:"description"`
	StartDatetime string        `json:"start_datetime"`
	EndDatetime   string        `json:"end_datetime"`
	Location      string        `json:"location"`
	Recurrence    string        `json:"recurrence"`
	Reminders     *rawReminders `json:"reminders"`
}

type rawUpdates struct {
	Summary       *string       `json:"summary"`
	Description   *string       `json:"description"`
	Location      *string       `json:"location"`
	StartDatetime *string       `json:"start_datetime"`
	EndDatetime   *string       `json:"end_datetime"`
	Recurrence    *string       `json:"recurrence"`
	Reminders     *rawReminders `json:"reminders"`
}

type rawReminders struct {
	UseDefault bool          `json:"useDefault"`
	Overrides  []rawOverride `json:"overrides"`
}

type rawOverride struct {
	Method  string `json:"method"`
	Minutes int64  `json:"minutes"`
}

// Extract parses the user's message into a calendar action. A model
// failure, unparseable JSON or a missing action discriminator returns an
// error; callers reply with a clarification message, never the raw cause.
func (e *Extractor) Extract(ctx context.Context, message string, entries []history.Entry) (*Request, error) {
	prompt := buildActionPrompt(e.now(), entries, message)

	response, err := e.model.Complete(ctx, "extract", prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to call model: %w", err)
	}

	var raw rawRequest
	if err := decodeJSON(response, &raw); err != nil {
		e.logger.Warn("model returned unparseable JSON", logging.Operation("extract"), logging.Err(err))
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	switch Action(raw.Action) {
	case ActionCreate:
		return e.buildCreate(raw)
	case ActionModify:
		return e.buildModify(raw)
	default:
		return nil, fmt.Errorf("model response has no usable action: %q", raw.Action)
	}
}

// ExtractEvents is the standalone array-contract parser: it drafts events
// from a message without deciding create-vs-modify. Used by the dry-run
// parse command.
func (e *Extractor) ExtractEvents(ctx context.Context, message string) ([]calendar.EventDraft, error) {
	prompt := buildEventsPrompt(e.now(), message)

	response, err := e.model.Complete(ctx, "extract", prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to call model: %w", err)
	}

	var raws []rawEvent
	if err := decodeJSON(response, &raws); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	return e.buildDrafts(raws), nil
}

func (e *Extractor) buildCreate(raw rawRequest) (*Request, error) {
	return &Request{
		Action: ActionCreate,
		Events: e.buildDrafts(raw.Events),
	}, nil
}

// buildDrafts validates each raw event independently: a malformed entry is
// dropped and the rest survive.
func (e *Extractor) buildDrafts(raws []rawEvent) []calendar.EventDraft {
	var drafts []calendar.EventDraft
	for _, raw := range raws {
		draft, err := e.buildDraft(raw)
		if err != nil {
			e.logger.Warn("dropping malformed event draft",
				logging.Operation("extract"),
				slog.String("summary", raw.Summary),
				logging.Err(err))
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

func (e *Extractor) buildDraft(raw rawEvent) (calendar.EventDraft, error) {
	start, err := e.parseTime(raw.StartDatetime)
	if err != nil {
		return calendar.EventDraft{}, fmt.Errorf("invalid start_datetime: %w", err)
	}
	end, err := e.parseTime(raw.EndDatetime)
	if err != nil {
		return calendar.EventDraft{}, fmt.Errorf("invalid end_datetime: %w", err)
	}
	if !start.Before(end) {
		return calendar.EventDraft{}, fmt.Errorf("start %s is not before end %s", raw.StartDatetime, raw.EndDatetime)
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = calendar.DefaultSummary
	}

	draft := calendar.EventDraft{
		Summary:     summary,
		Description: raw.Description,
		Location:    raw.Location,
		Start:       start,
		End:         end,
		Reminders:   buildReminders(raw.Reminders),
	}

	// RRULE strings are passed through from the model, but an obviously
	// broken rule would fail the provider call and sink the whole event.
	// Dropping just the recurrence keeps the event itself.
	if raw.Recurrence != "" {
		if validRecurrence(raw.Recurrence) {
			draft.Recurrence = raw.Recurrence
		} else {
			e.logger.Warn("dropping invalid recurrence rule",
				logging.Operation("extract"),
				slog.String("rrule", raw.Recurrence))
		}
	}

	return draft, nil
}

func (e *Extractor) buildModify(raw rawRequest) (*Request, error) {
	patch, err := e.buildPatch(raw.Updates)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("modify request has no updates")
	}

	return &Request{
		Action:      ActionModify,
		SearchQuery: strings.TrimSpace(raw.SearchQuery),
		Updates:     patch,
	}, nil
}

func (e *Extractor) buildPatch(raw *rawUpdates) (calendar.EventPatch, error) {
	var patch calendar.EventPatch
	if raw == nil {
		return patch, nil
	}

	patch.Summary = raw.Summary
	patch.Description = raw.Description
	patch.Location = raw.Location

	if raw.StartDatetime != nil {
		start, err := e.parseTime(*raw.StartDatetime)
		if err != nil {
			return calendar.EventPatch{}, fmt.Errorf("invalid start_datetime in updates: %w", err)
		}
		patch.Start = &start
	}
	if raw.EndDatetime != nil {
		end, err := e.parseTime(*raw.EndDatetime)
		if err != nil {
			return calendar.EventPatch{}, fmt.Errorf("invalid end_datetime in updates: %w", err)
		}
		patch.End = &end
	}
	if raw.Recurrence != nil && validRecurrence(*raw.Recurrence) {
		patch.Recurrence = raw.Recurrence
	}
	patch.Reminders = buildReminders(raw.Reminders)

	return patch, nil
}

func (e *Extractor) parseTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value), e.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// buildReminders validates the reminder block. Negative minutes are a
// contract violation by the model; such overrides are dropped. A block with
// useDefault unset and no surviving overrides is meaningless and dropped
// entirely.
func buildReminders(raw *rawReminders) *calendar.Reminders {
	if raw == nil {
		return nil
	}
	if raw.UseDefault {
		return &calendar.Reminders{UseDefault: true}
	}

	r := &calendar.Reminders{}
	for _, o := range raw.Overrides {
		if o.Minutes < 0 {
			continue
		}
		method := o.Method
		if method == "" {
			method = "popup"
		}
		r.Overrides = append(r.Overrides, calendar.ReminderOverride{
			Method:  method,
			Minutes: o.Minutes,
		})
	}
	if len(r.Overrides) == 0 {
		return nil
	}
	return r
}

// validRecurrence reports whether s parses as an RRULE.
func validRecurrence(s string) bool {
	s = strings.TrimSpace(strings.TrimPrefix(s, "RRULE:"))
	if s == "" {
		return false
	}
	_, err := rrule.StrToRRule(s)
	return err == nil
}

// decodeJSON parses a model response into v. Markdown code fences are
// stripped first; if strict parsing fails the response is run through
// jsonrepair before giving up, since models routinely emit trailing commas
// or unquoted keys.
func decodeJSON(response string, v any) error {
	cleaned := stripFences(response)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("response is not valid JSON and could not be repaired: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("repaired response is still not valid JSON: %w", err)
	}
	return nil
}

// stripFences removes an optional triple-backtick wrapping, with or
// without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the opening fence.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{[") {
			s = s[idx+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
