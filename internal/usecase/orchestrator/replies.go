package orchestrator

import (
	"fmt"
	"strings"

	"booking-assistant/internal/domain/entity"
)

const (
	replyGreeting = "Hello! I can help you book a medical appointment. " +
		"To get started, tell me your user id (for example: \"my user id is user_12345\")."

	replyAskIdentifier = "Happy to help you book an appointment. " +
		"First I need to look up your details - what is your user id?"

	replyDirectoryUnavailable = "I couldn't reach the provider directory just now, " +
		"so I have no recommendations to show. Please send your user id again in a moment."

	replySelectionPrompt = "Please reply with the number of the provider you'd like " +
		"to book with (for example: \"2\")."

	replySelectionOutOfRange = "That number isn't on the list - please pick a number between 1 and %d."

	replyBookingAlternatives = "No problem. You can say \"yes\" when you're ready to book, " +
		"or choose another path:\n" +
		"  1. Pick a different provider (restart the session)\n" +
		"  2. Change the extra details you gave me\n" +
		"  3. Cancel for now"
)

func renderProviderList(profile *entity.UserProfile, providers []entity.Provider) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Welcome back, %s! ", profile.FullName())
	if profile.InsuranceProvider != "" {
		fmt.Fprintf(&sb, "Based on your %s insurance, here are my recommendations:\n\n", profile.InsuranceProvider)
	} else {
		sb.WriteString("Here are my recommendations:\n\n")
	}

	for i, p := range providers {
		fmt.Fprintf(&sb, "%d. %s - %s", i+1, p.Name, p.Specialty)
		if p.City != "" {
			fmt.Fprintf(&sb, ", %s", p.City)
		}
		fmt.Fprintf(&sb, " (rating %.1f)\n", p.Rating)
	}

	sb.WriteString("\nReply with the number of the provider you'd like to book with.")
	return sb.String()
}

func renderInspectionFailure(p *entity.Provider) string {
	return fmt.Sprintf("I wasn't able to read the booking form for %s. "+
		"You can pick a different provider (restart the session with your user id), "+
		"or call the office directly at %s.", p.Name, p.Phone)
}

func renderReadyToBook(p *entity.Provider) string {
	return fmt.Sprintf("I have everything I need to book your appointment with %s. "+
		"Shall I go ahead? (yes / no)", p.Name)
}

func renderMissingFieldPrompt(label string) string {
	return fmt.Sprintf("The booking form needs one more thing from you: %s. "+
		"Please type it in.", label)
}

func renderActuationFailure(p *entity.Provider) string {
	return fmt.Sprintf("Something went wrong while submitting the booking form for %s. "+
		"You can say \"yes\" to try again, or call the office directly at %s to book by phone.",
		p.Name, p.Phone)
}

func renderBookingConfirmed(p *entity.Provider) string {
	return fmt.Sprintf("Done! Your appointment request with %s has been submitted.\n"+
		"Address: %s\nPhone: %s\n"+
		"They will contact you to confirm the exact time. Is there anything else I can help with?",
		p.Name, p.Address, p.Phone)
}
