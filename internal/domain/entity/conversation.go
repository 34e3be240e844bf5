package entity

// Stage is the discrete phase of the booking conversation.
type Stage string

const (
	StageGreeting          Stage = "greeting"
	StageProviderSelection Stage = "provider_selection"
	StageFormAnalysis      Stage = "form_analysis"
	StageInfoCollection    Stage = "info_collection"
	StageBooking           Stage = "booking"
)

// ConversationState is the only mutable unit of a booking session. It is
// owned by exactly one session and mutated only by the orchestrator.
//
// Invariants: SelectedProvider is set iff Stage is form_analysis,
// info_collection or booking; Profile is set iff Stage is not greeting.
type ConversationState struct {
	Stage            Stage             `json:"stage"`
	UserID           string            `json:"userId,omitempty"`
	Profile          *UserProfile      `json:"profile,omitempty"`
	SelectedProvider *Provider         `json:"selectedProvider,omitempty"`
	CollectedInfo    map[string]string `json:"collectedInfo,omitempty"`
}

// NewConversationState returns the fresh greeting state a session starts in.
func NewConversationState() *ConversationState {
	return &ConversationState{Stage: StageGreeting}
}

// Reset discards all session data and returns the state to greeting.
func (s *ConversationState) Reset() {
	s.Stage = StageGreeting
	s.UserID = ""
	s.Profile = nil
	s.SelectedProvider = nil
	s.CollectedInfo = nil
}

// Clone returns a deep copy sharing no mutable data with the receiver.
// Session stores hand out clones so no two turns alias one state.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Profile != nil {
		p := *s.Profile
		p.MedicalConditions = append([]string(nil), s.Profile.MedicalConditions...)
		p.Medications = append([]string(nil), s.Profile.Medications...)
		out.Profile = &p
	}
	if s.SelectedProvider != nil {
		pr := *s.SelectedProvider
		pr.AcceptedInsurance = append([]string(nil), s.SelectedProvider.AcceptedInsurance...)
		pr.Services = append([]string(nil), s.SelectedProvider.Services...)
		out.SelectedProvider = &pr
	}
	if s.CollectedInfo != nil {
		out.CollectedInfo = make(map[string]string, len(s.CollectedInfo))
		for k, v := range s.CollectedInfo {
			out.CollectedInfo[k] = v
		}
	}
	return &out
}
