package nlu

import (
	"fmt"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

const extractionSystemPrompt = "You extract structured data from user messages. Respond only with a JSON object."

const classificationSystemPrompt = "You route conversations in a voice response system. Respond only with the number of the best option."

func writeHistory(b *strings.Builder, history []domain.Turn) {
	recent := domain.RecentTurns(history, domain.HistoryWindow)
	if len(recent) == 0 {
		return
	}
	b.WriteString("Conversation history:\n")
	for _, t := range recent {
		speaker := "User"
		if t.Role == domain.RoleAssistant {
			speaker = "Bot"
		}
		fmt.Fprintf(b, "%s: %s\n", speaker, t.Content)
	}
	b.WriteString("\n")
}

func extractionPrompt(req ExtractRequest) string {
	var b strings.Builder
	writeHistory(&b, req.History)
	fmt.Fprintf(&b, "Extract the following entities from the user message: %s\n\n", strings.Join(req.RequiredSlots, ", "))
	fmt.Fprintf(&b, "User message: %s\n\n", req.Message)
	b.WriteString("Return a JSON object whose keys are exactly the entity names above and whose values are the extracted strings. ")
	b.WriteString("Use null for entities that are not present.")
	return b.String()
}

func classificationPrompt(req ClassifyRequest, candidates []domain.Node) string {
	var b strings.Builder
	b.WriteString("Pick the most appropriate next step of the conversation.\n\n")
	writeHistory(&b, req.History)
	if req.Current != nil {
		fmt.Fprintf(&b, "Current step: %s: %s\n", req.Current.DisplayTitle(), req.Current.Content)
	}
	fmt.Fprintf(&b, "User message: %s\n\nOptions:\n", req.Message)
	for i, n := range candidates {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, n.DisplayTitle(), n.Content)
	}
	b.WriteString("\nReturn only the number of the best matching option.")
	return b.String()
}
