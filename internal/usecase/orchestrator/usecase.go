package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"booking-assistant/internal/application/port/input"
	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
)

var _ input.MessageProcessor = (*UseCase)(nil)

const (
	defaultCallTimeout = 30 * time.Second

	// The actuator clicks this after the canonical fields are filled.
	submitInstruction = `button[type="submit"], input[type="submit"]`
)

var (
	userIDPattern  = regexp.MustCompile(`(?i)\buser[_-][a-z0-9]+\b`)
	integerPattern = regexp.MustCompile(`\d+`)

	bookingIntentWords = []string{"book", "appointment", "schedule", "doctor", "provider", "visit"}
	confirmationWords  = []string{"yes", "confirm", "proceed", "book", "ok", "okay"}
)

// UseCase sequences the booking conversation. It is stateless apart from
// the injected collaborator handles, so one instance can serve any number
// of independent sessions; all mutable data travels in ConversationState.
type UseCase struct {
	profiles    output.ProfileStorePort
	directory   output.ProviderDirectoryPort
	inspector   output.FormInspectorPort
	mapper      output.FieldMapperPort
	actuator    output.FormActuatorPort
	logger      output.LoggerPort
	callTimeout time.Duration
}

func New(
	profiles output.ProfileStorePort,
	directory output.ProviderDirectoryPort,
	inspector output.FormInspectorPort,
	mapper output.FieldMapperPort,
	actuator output.FormActuatorPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		profiles:    profiles,
		directory:   directory,
		inspector:   inspector,
		mapper:      mapper,
		actuator:    actuator,
		logger:      logger,
		callTimeout: defaultCallTimeout,
	}
}

// WithCallTimeout overrides the per-collaborator-call timeout. A zero or
// negative value disables it.
func (uc *UseCase) WithCallTimeout(d time.Duration) *UseCase {
	uc.callTimeout = d
	return uc
}

// ProcessMessage routes one inbound message to the handler for the current
// stage. Collaborator failures never escape as errors; they become replies
// that keep the session recoverable. The error return fires only when the
// supplied state violates the stage invariants.
func (uc *UseCase) ProcessMessage(ctx context.Context, state *entity.ConversationState, userText string, resetRequested bool) (*entity.ConversationState, string, error) {
	if state == nil {
		state = entity.NewConversationState()
	}

	if resetRequested {
		uc.logger.Info("Session reset requested", "stage", state.Stage)
		fresh := entity.NewConversationState()
		return fresh, replyGreeting, nil
	}

	if err := validateState(state); err != nil {
		return state, "", err
	}

	userText = strings.TrimSpace(userText)
	uc.logger.Debug("Processing message", "stage", state.Stage, "textLen", len(userText))

	switch state.Stage {
	case entity.StageGreeting:
		return uc.handleGreeting(ctx, state, userText)
	case entity.StageProviderSelection:
		return uc.handleProviderSelection(ctx, state, userText)
	case entity.StageFormAnalysis:
		return uc.analyzeForm(ctx, state)
	case entity.StageInfoCollection:
		return uc.handleInfoCollection(ctx, state, userText)
	case entity.StageBooking:
		return uc.handleBooking(ctx, state, userText)
	default:
		return state, "", fmt.Errorf("unknown conversation stage %q", state.Stage)
	}
}

func (uc *UseCase) handleGreeting(ctx context.Context, state *entity.ConversationState, userText string) (*entity.ConversationState, string, error) {
	userID := userIDPattern.FindString(userText)
	if userID == "" {
		if containsAnyWord(userText, bookingIntentWords) {
			return state, replyAskIdentifier, nil
		}
		return state, replyGreeting, nil
	}

	profile := uc.resolveProfile(ctx, userID)

	providers, err := uc.recommend(ctx, profile)
	if err != nil || len(providers) == 0 {
		uc.logger.Warn("Provider recommendation failed", "userId", userID, "error", err)
		return state, replyDirectoryUnavailable, nil
	}

	state.UserID = userID
	state.Profile = profile
	state.Stage = entity.StageProviderSelection

	uc.logger.Info("Profile resolved, providers listed",
		"userId", userID, "providers", len(providers))

	return state, renderProviderList(profile, providers), nil
}

func (uc *UseCase) handleProviderSelection(ctx context.Context, state *entity.ConversationState, userText string) (*entity.ConversationState, string, error) {
	n, ok := firstInteger(userText)
	if !ok {
		return state, replySelectionPrompt, nil
	}

	// The shown list is re-derived rather than stored; ranking is a pure
	// function of the profile, so this reproduces the same ordering.
	providers, err := uc.recommend(ctx, state.Profile)
	if err != nil || len(providers) == 0 {
		uc.logger.Warn("Provider recommendation failed during selection", "error", err)
		return state, replyDirectoryUnavailable, nil
	}

	if n < 1 || n > len(providers) {
		return state, fmt.Sprintf(replySelectionOutOfRange, len(providers)), nil
	}

	selected := providers[n-1]
	state.SelectedProvider = &selected
	state.Stage = entity.StageFormAnalysis

	uc.logger.Info("Provider selected", "provider", selected.Name, "bookingUrl", selected.BookingURL)

	// Inspection chains immediately off the selection.
	return uc.analyzeForm(ctx, state)
}

// analyzeForm inspects the booking page and reconciles the profile against
// the observed fields. Zero observed fields counts as an inspection
// failure; an empty missing list is the sole condition for skipping
// info collection.
func (uc *UseCase) analyzeForm(ctx context.Context, state *entity.ConversationState) (*entity.ConversationState, string, error) {
	provider := state.SelectedProvider

	callCtx, cancel := uc.callContext(ctx)
	fields, err := uc.inspector.Inspect(callCtx, provider.BookingURL)
	cancel()
	if err != nil || len(fields) == 0 {
		uc.logger.Warn("Form inspection failed",
			"provider", provider.Name, "url", provider.BookingURL, "error", err)
		return state, renderInspectionFailure(provider), nil
	}

	callCtx, cancel = uc.callContext(ctx)
	mapping, err := uc.mapper.Map(callCtx, state.Profile, fields)
	cancel()
	if err != nil || mapping == nil {
		uc.logger.Warn("Field mapping failed", "provider", provider.Name, "error", err)
		return state, renderInspectionFailure(provider), nil
	}

	uc.logger.Info("Form analyzed",
		"provider", provider.Name,
		"fields", len(fields),
		"assignments", len(mapping.Assignments),
		"missing", len(mapping.MissingLabels))

	if len(mapping.MissingLabels) == 0 {
		state.Stage = entity.StageBooking
		return state, renderReadyToBook(provider), nil
	}

	state.Stage = entity.StageInfoCollection
	state.CollectedInfo = make(map[string]string)

	// One item at a time, starting from the front of the list.
	return state, renderMissingFieldPrompt(mapping.MissingLabels[0]), nil
}

func (uc *UseCase) handleInfoCollection(ctx context.Context, state *entity.ConversationState, userText string) (*entity.ConversationState, string, error) {
	if state.CollectedInfo == nil {
		state.CollectedInfo = make(map[string]string)
	}
	state.CollectedInfo["additionalInfo"] = userText
	state.Stage = entity.StageBooking

	return state, renderReadyToBook(state.SelectedProvider), nil
}

func (uc *UseCase) handleBooking(ctx context.Context, state *entity.ConversationState, userText string) (*entity.ConversationState, string, error) {
	if !containsAnyWord(userText, confirmationWords) {
		return state, replyBookingAlternatives, nil
	}

	provider := state.SelectedProvider
	assignments := canonicalAssignments(state.Profile)

	callCtx, cancel := uc.callContext(ctx)
	err := uc.actuator.Submit(callCtx, provider.BookingURL, assignments, submitInstruction)
	cancel()
	if err != nil {
		uc.logger.Error("Form actuation failed",
			"provider", provider.Name, "url", provider.BookingURL, "error", err)
		return state, renderActuationFailure(provider), nil
	}

	uc.logger.Info("Booking submitted", "provider", provider.Name, "userId", state.UserID)

	reply := renderBookingConfirmed(provider)
	state.Reset()
	return state, reply, nil
}

// resolveProfile never fails the conversation: when the store cannot
// produce a profile the orchestrator synthesizes a demo profile bound to
// the requested identifier.
func (uc *UseCase) resolveProfile(ctx context.Context, userID string) *entity.UserProfile {
	callCtx, cancel := uc.callContext(ctx)
	defer cancel()

	profile, err := uc.profiles.Lookup(callCtx, userID)
	if err != nil {
		uc.logger.Warn("Profile lookup failed, using fallback", "userId", userID, "error", err)
		return fallbackProfile(userID)
	}
	return profile
}

func (uc *UseCase) recommend(ctx context.Context, profile *entity.UserProfile) ([]entity.Provider, error) {
	callCtx, cancel := uc.callContext(ctx)
	defer cancel()
	return uc.directory.Recommend(callCtx, profile.InsuranceProvider, profile.City)
}

func (uc *UseCase) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.callTimeout)
}

// canonicalAssignments builds the actuator instructions from fixed slots
// of the profile. The mapper's own assignments from form analysis are not
// re-threaded here.
func canonicalAssignments(p *entity.UserProfile) []entity.FieldAssignment {
	return []entity.FieldAssignment{
		{FieldID: `input[name="firstName"]`, Value: p.FirstName, Action: entity.ActionType},
		{FieldID: `input[name="lastName"]`, Value: p.LastName, Action: entity.ActionType},
		{FieldID: `input[name="phone"]`, Value: p.Phone, Action: entity.ActionType},
		{FieldID: `input[name="email"]`, Value: p.Email, Action: entity.ActionType},
	}
}

func validateState(state *entity.ConversationState) error {
	switch state.Stage {
	case entity.StageGreeting:
		return nil
	case entity.StageProviderSelection:
		if state.Profile == nil {
			return fmt.Errorf("stage %s requires a resolved profile", state.Stage)
		}
	case entity.StageFormAnalysis, entity.StageInfoCollection, entity.StageBooking:
		if state.Profile == nil {
			return fmt.Errorf("stage %s requires a resolved profile", state.Stage)
		}
		if state.SelectedProvider == nil {
			return fmt.Errorf("stage %s requires a selected provider", state.Stage)
		}
	default:
		return fmt.Errorf("unknown conversation stage %q", state.Stage)
	}
	return nil
}

func firstInteger(s string) (int, bool) {
	match := integerPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsAnyWord(s string, words []string) bool {
	lower := strings.ToLower(s)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}
