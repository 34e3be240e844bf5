package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/domain/entity"
	"booking-assistant/internal/infrastructure/logger"
)

type mockProfileStore struct {
	lookup func(ctx context.Context, id string) (*entity.UserProfile, error)
}

func (m *mockProfileStore) Lookup(ctx context.Context, id string) (*entity.UserProfile, error) {
	return m.lookup(ctx, id)
}

type mockDirectory struct {
	recommend func(ctx context.Context, insurance, location string) ([]entity.Provider, error)
}

func (m *mockDirectory) Recommend(ctx context.Context, insurance, location string) ([]entity.Provider, error) {
	return m.recommend(ctx, insurance, location)
}

type mockInspector struct {
	inspect func(ctx context.Context, url string) ([]entity.FormField, error)
}

func (m *mockInspector) Inspect(ctx context.Context, url string) ([]entity.FormField, error) {
	return m.inspect(ctx, url)
}

type mockMapper struct {
	mapFn func(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error)
}

func (m *mockMapper) Map(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
	return m.mapFn(ctx, profile, fields)
}

type mockActuator struct {
	submit func(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error
}

func (m *mockActuator) Submit(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
	return m.submit(ctx, url, assignments, submitInstruction)
}

func testProfile() *entity.UserProfile {
	return &entity.UserProfile{
		ID:                "user_12345",
		FirstName:         "Jordan",
		LastName:          "Blake",
		Email:             "jordan.blake@example.com",
		Phone:             "555-0129",
		City:              "Springfield",
		InsuranceProvider: "Aetna",
	}
}

func testProviders(n int) []entity.Provider {
	providers := make([]entity.Provider, 0, n)
	for i := 1; i <= n; i++ {
		providers = append(providers, entity.Provider{
			ID:         fmt.Sprintf("prov-%03d", i),
			Name:       fmt.Sprintf("Clinic %d", i),
			Specialty:  "Family Medicine",
			Address:    fmt.Sprintf("%d Main Street", i),
			City:       "Springfield",
			Phone:      fmt.Sprintf("555-01%02d", i),
			Rating:     4.5,
			BookingURL: fmt.Sprintf("https://clinic%d.example.com/book", i),
		})
	}
	return providers
}

// fixture wires a UseCase whose collaborators all succeed; individual
// tests override the mocks they care about.
type fixture struct {
	profiles  *mockProfileStore
	directory *mockDirectory
	inspector *mockInspector
	mapper    *mockMapper
	actuator  *mockActuator
}

func newFixture() *fixture {
	return &fixture{
		profiles: &mockProfileStore{
			lookup: func(ctx context.Context, id string) (*entity.UserProfile, error) {
				p := testProfile()
				p.ID = id
				return p, nil
			},
		},
		directory: &mockDirectory{
			recommend: func(ctx context.Context, insurance, location string) ([]entity.Provider, error) {
				return testProviders(3), nil
			},
		},
		inspector: &mockInspector{
			inspect: func(ctx context.Context, url string) ([]entity.FormField, error) {
				return []entity.FormField{
					{Label: "First Name", FieldID: "#firstName", FieldType: "text", Required: true},
					{Label: "Email", FieldID: "#email", FieldType: "email", Required: true},
				}, nil
			},
		},
		mapper: &mockMapper{
			mapFn: func(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
				return &output.FieldMapping{
					Assignments: []entity.FieldAssignment{
						{FieldID: "#firstName", Value: profile.FirstName, Action: entity.ActionType},
					},
				}, nil
			},
		},
		actuator: &mockActuator{
			submit: func(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
				return nil
			},
		},
	}
}

func (f *fixture) useCase() *UseCase {
	return New(f.profiles, f.directory, f.inspector, f.mapper, f.actuator, logger.NewNop())
}

func selectionState() *entity.ConversationState {
	return &entity.ConversationState{
		Stage:   entity.StageProviderSelection,
		UserID:  "user_12345",
		Profile: testProfile(),
	}
}

func bookingState() *entity.ConversationState {
	p := testProviders(1)[0]
	return &entity.ConversationState{
		Stage:            entity.StageBooking,
		UserID:           "user_12345",
		Profile:          testProfile(),
		SelectedProvider: &p,
	}
}

func TestGreeting_GenericInput(t *testing.T) {
	uc := newFixture().useCase()
	state := entity.NewConversationState()

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "hello there", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.Contains(t, reply, "user id")
	assert.Nil(t, newState.Profile)
}

func TestGreeting_BookingIntentWithoutIdentifier(t *testing.T) {
	uc := newFixture().useCase()
	state := entity.NewConversationState()

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "I want to book an appointment", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.Contains(t, reply, "user id")
}

func TestGreeting_WithUserID_ListsProviders(t *testing.T) {
	uc := newFixture().useCase()
	state := entity.NewConversationState()

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "my user id is user_12345", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageProviderSelection, newState.Stage)
	assert.Equal(t, "user_12345", newState.UserID)
	require.NotNil(t, newState.Profile)

	for i := 1; i <= 3; i++ {
		assert.Contains(t, reply, fmt.Sprintf("%d. Clinic %d", i, i))
	}
}

func TestGreeting_ProfileLookupFailure_UsesFallback(t *testing.T) {
	f := newFixture()
	f.profiles.lookup = func(ctx context.Context, id string) (*entity.UserProfile, error) {
		return nil, errors.New("store unreachable")
	}
	uc := f.useCase()

	newState, _, err := uc.ProcessMessage(context.Background(), entity.NewConversationState(), "user_99999 here", false)
	require.NoError(t, err)

	require.NotNil(t, newState.Profile)
	assert.Equal(t, "user_99999", newState.Profile.ID, "fallback must preserve the requested identifier")
	assert.Equal(t, entity.StageProviderSelection, newState.Stage)
}

func TestGreeting_DirectoryFailure_StaysAtGreeting(t *testing.T) {
	f := newFixture()
	f.directory.recommend = func(ctx context.Context, insurance, location string) ([]entity.Provider, error) {
		return nil, errors.New("directory down")
	}
	uc := f.useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), entity.NewConversationState(), "my user id is user_12345", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.Nil(t, newState.Profile, "profile must not be bound until the transition succeeds")
	assert.NotEmpty(t, reply)
}

func TestSelection_ValidNumber_ChainsIntoBooking(t *testing.T) {
	uc := newFixture().useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), selectionState(), "2", false)
	require.NoError(t, err)

	require.NotNil(t, newState.SelectedProvider)
	assert.Equal(t, "Clinic 2", newState.SelectedProvider.Name)
	// No missing fields in the fixture, so analysis chains straight to booking.
	assert.Equal(t, entity.StageBooking, newState.Stage)
	assert.Contains(t, reply, "Clinic 2")
}

func TestSelection_ValidNumber_ChainsIntoInfoCollection(t *testing.T) {
	f := newFixture()
	f.mapper.mapFn = func(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
		return &output.FieldMapping{
			MissingLabels: []string{"Reason for visit", "Preferred date"},
		}, nil
	}
	uc := f.useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), selectionState(), "1", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageInfoCollection, newState.Stage)
	assert.Contains(t, reply, "Reason for visit", "prompt must name the first missing label")
	assert.NotContains(t, reply, "Preferred date", "only one item is collected at a time")
	assert.NotNil(t, newState.CollectedInfo)
}

func TestSelection_OutOfRange_StaysPut(t *testing.T) {
	uc := newFixture().useCase()

	for _, input := range []string{"0", "7", "42"} {
		newState, reply, err := uc.ProcessMessage(context.Background(), selectionState(), input, false)
		require.NoError(t, err)

		assert.Equal(t, entity.StageProviderSelection, newState.Stage, "input %q", input)
		assert.Nil(t, newState.SelectedProvider, "input %q", input)
		assert.Contains(t, reply, "between 1 and 3", "input %q", input)
	}
}

func TestSelection_NonNumeric_Reprompts(t *testing.T) {
	uc := newFixture().useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), selectionState(), "the second one please", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageProviderSelection, newState.Stage)
	assert.Contains(t, reply, "number")
}

func TestFormAnalysis_EmptyInspection_IsFailure(t *testing.T) {
	f := newFixture()
	f.inspector.inspect = func(ctx context.Context, url string) ([]entity.FormField, error) {
		return nil, nil
	}
	uc := f.useCase()

	state := bookingState()
	state.Stage = entity.StageFormAnalysis

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "go on", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageFormAnalysis, newState.Stage, "stage must not advance on failure")
	assert.Contains(t, reply, newState.SelectedProvider.Phone, "manual fallback must be offered")
}

func TestFormAnalysis_InspectorError_KeepsSessionRecoverable(t *testing.T) {
	f := newFixture()
	f.inspector.inspect = func(ctx context.Context, url string) ([]entity.FormField, error) {
		return nil, errors.New("page timed out")
	}
	uc := f.useCase()

	state := bookingState()
	state.Stage = entity.StageFormAnalysis

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "retry", false)
	require.NoError(t, err)
	assert.Equal(t, entity.StageFormAnalysis, newState.Stage)
	assert.NotEmpty(t, reply)
}

func TestFormAnalysis_MapperError_KeepsSessionRecoverable(t *testing.T) {
	f := newFixture()
	f.mapper.mapFn = func(ctx context.Context, profile *entity.UserProfile, fields []entity.FormField) (*output.FieldMapping, error) {
		return nil, errors.New("model returned garbage")
	}
	uc := f.useCase()

	state := bookingState()
	state.Stage = entity.StageFormAnalysis

	newState, _, err := uc.ProcessMessage(context.Background(), state, "retry", false)
	require.NoError(t, err)
	assert.Equal(t, entity.StageFormAnalysis, newState.Stage)
}

func TestInfoCollection_RecordsTextAndAdvances(t *testing.T) {
	uc := newFixture().useCase()

	state := bookingState()
	state.Stage = entity.StageInfoCollection
	state.CollectedInfo = make(map[string]string)

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "persistent cough since Tuesday", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageBooking, newState.Stage)
	assert.Equal(t, "persistent cough since Tuesday", newState.CollectedInfo["additionalInfo"])
	assert.Contains(t, reply, newState.SelectedProvider.Name)
}

func TestBooking_Confirmation_SubmitsAndResets(t *testing.T) {
	var gotURL, gotSubmit string
	var gotAssignments []entity.FieldAssignment

	f := newFixture()
	f.actuator.submit = func(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
		gotURL = url
		gotAssignments = assignments
		gotSubmit = submitInstruction
		return nil
	}
	uc := f.useCase()

	state := bookingState()
	provider := *state.SelectedProvider

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "yes", false)
	require.NoError(t, err)

	assert.Equal(t, provider.BookingURL, gotURL)
	assert.Contains(t, gotSubmit, "submit")
	require.Len(t, gotAssignments, 4, "canonical slots: first name, last name, phone, email")
	values := make([]string, 0, len(gotAssignments))
	for _, a := range gotAssignments {
		assert.Equal(t, entity.ActionType, a.Action)
		values = append(values, a.Value)
	}
	assert.ElementsMatch(t, []string{"Jordan", "Blake", "555-0129", "jordan.blake@example.com"}, values)

	assert.Contains(t, reply, provider.Name)
	assert.Contains(t, reply, provider.Address)
	assert.Contains(t, reply, provider.Phone)

	// Full reset back to the initial greeting state.
	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.Empty(t, newState.UserID)
	assert.Nil(t, newState.Profile)
	assert.Nil(t, newState.SelectedProvider)
	assert.Nil(t, newState.CollectedInfo)
}

func TestBooking_ActuatorFailure_OffersPhoneFallback(t *testing.T) {
	f := newFixture()
	f.actuator.submit = func(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
		return errors.New("submit button not found")
	}
	uc := f.useCase()

	state := bookingState()
	provider := *state.SelectedProvider

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "yes", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageBooking, newState.Stage, "failed booking must stay retryable")
	assert.Contains(t, reply, provider.Phone)
	assert.NotNil(t, newState.SelectedProvider)
}

func TestBooking_NonConfirmation_OffersAlternatives(t *testing.T) {
	uc := newFixture().useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), bookingState(), "hmm not sure", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageBooking, newState.Stage)
	assert.Contains(t, reply, "Cancel")
}

func TestReset_FromAnyStage(t *testing.T) {
	uc := newFixture().useCase()

	states := []*entity.ConversationState{
		entity.NewConversationState(),
		selectionState(),
		bookingState(),
	}
	infoState := bookingState()
	infoState.Stage = entity.StageInfoCollection
	infoState.CollectedInfo = map[string]string{"additionalInfo": "something"}
	states = append(states, infoState)

	for _, state := range states {
		newState, reply, err := uc.ProcessMessage(context.Background(), state, "whatever", true)
		require.NoError(t, err)

		assert.Equal(t, entity.StageGreeting, newState.Stage, "from stage %s", state.Stage)
		assert.Empty(t, newState.UserID)
		assert.Nil(t, newState.Profile)
		assert.Nil(t, newState.SelectedProvider)
		assert.Nil(t, newState.CollectedInfo)
		assert.NotEmpty(t, reply)
	}
}

func TestNonMatchingInput_NeverChangesStage(t *testing.T) {
	uc := newFixture().useCase()

	cases := []struct {
		name  string
		state *entity.ConversationState
		input string
	}{
		{"greeting small talk", entity.NewConversationState(), "how's the weather"},
		{"selection words", selectionState(), "none of these"},
		{"booking hesitation", bookingState(), "let me think"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.state.Stage
			newState, reply, err := uc.ProcessMessage(context.Background(), tc.state, tc.input, false)
			require.NoError(t, err)
			assert.Equal(t, before, newState.Stage)
			assert.NotEmpty(t, reply)
		})
	}
}

func TestInvalidState_ReturnsError(t *testing.T) {
	uc := newFixture().useCase()

	cases := []*entity.ConversationState{
		{Stage: entity.StageBooking, Profile: testProfile()},        // no provider
		{Stage: entity.StageProviderSelection},                      // no profile
		{Stage: "daydreaming", Profile: testProfile()},              // unknown stage
		{Stage: entity.StageInfoCollection, Profile: testProfile()}, // no provider
	}

	for _, state := range cases {
		_, _, err := uc.ProcessMessage(context.Background(), state, "yes", false)
		assert.Error(t, err, "stage %s", state.Stage)
	}
}

func TestNilState_StartsFresh(t *testing.T) {
	uc := newFixture().useCase()

	newState, reply, err := uc.ProcessMessage(context.Background(), nil, "hello", false)
	require.NoError(t, err)
	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.NotEmpty(t, reply)
}

func TestSlowInspector_TimesOutAsInspectionFailure(t *testing.T) {
	f := newFixture()
	f.inspector.inspect = func(ctx context.Context, url string) ([]entity.FormField, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	uc := f.useCase().WithCallTimeout(20 * time.Millisecond)

	state := bookingState()
	state.Stage = entity.StageFormAnalysis
	provider := *state.SelectedProvider

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "go on", false)
	require.NoError(t, err, "a timed-out collaborator is a failure reply, not an error")

	assert.Equal(t, entity.StageFormAnalysis, newState.Stage)
	assert.Contains(t, reply, provider.Phone)
}

func TestSlowDirectory_TimesOutAsDirectoryFailure(t *testing.T) {
	f := newFixture()
	f.directory.recommend = func(ctx context.Context, insurance, location string) ([]entity.Provider, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	uc := f.useCase().WithCallTimeout(20 * time.Millisecond)

	newState, reply, err := uc.ProcessMessage(context.Background(), entity.NewConversationState(),
		"my user id is user_12345", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageGreeting, newState.Stage)
	assert.Nil(t, newState.Profile)
	assert.Equal(t, replyDirectoryUnavailable, reply)
}

func TestSlowActuator_TimesOutAsActuationFailure(t *testing.T) {
	f := newFixture()
	f.actuator.submit = func(ctx context.Context, url string, assignments []entity.FieldAssignment, submitInstruction string) error {
		<-ctx.Done()
		return ctx.Err()
	}
	uc := f.useCase().WithCallTimeout(20 * time.Millisecond)

	state := bookingState()
	provider := *state.SelectedProvider

	newState, reply, err := uc.ProcessMessage(context.Background(), state, "yes", false)
	require.NoError(t, err)

	assert.Equal(t, entity.StageBooking, newState.Stage, "a timed-out submission stays retryable")
	assert.Contains(t, reply, provider.Phone)
}

func TestUserIDExtraction_FirstMatchWins(t *testing.T) {
	var lookedUp string
	f := newFixture()
	f.profiles.lookup = func(ctx context.Context, id string) (*entity.UserProfile, error) {
		lookedUp = id
		p := testProfile()
		p.ID = id
		return p, nil
	}
	uc := f.useCase()

	_, _, err := uc.ProcessMessage(context.Background(), entity.NewConversationState(),
		"book for user_111 not user_222", false)
	require.NoError(t, err)
	assert.Equal(t, "user_111", lookedUp)
}
