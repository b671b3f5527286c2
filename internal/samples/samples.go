// Package samples holds the built-in demonstration workflows.
package samples

import (
	"fmt"
	"sort"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/dsl"
)

// Greeting is the help/account demo: a greeting that routes to a help
// branch or to an account branch that needs the account_type slot.
func Greeting() *domain.Workflow {
	b := dsl.New()

	b.Add("start").
		Title("Greeting").
		Start("Hello! How can I help you today?").
		Go("intent_help", "help intent").
		Go("intent_account", "account intent").
		At(100, 100)

	b.Add("intent_help").
		Title("Help Request").
		Intent("I can help you with several things. What specifically do you need help with?").
		Go("response_help", "help response").
		At(300, 50)

	b.Add("intent_account").
		Title("Account Request").
		Intent("I see you want to manage your account. What would you like to do?").
		Slots("account_type").
		Go("end_node", "end").
		At(300, 150)

	b.Add("response_help").
		Title("Help Response").
		Response("Here is some helpful information for you.").
		Go("end_node", "end").
		At(500, 50)

	b.Add("end_node").
		Title("End Conversation").
		End("Thank you for using our service. Is there anything else I can help with?").
		At(700, 100)

	return b.MustBuild()
}

// Banking is a longer flow that exercises several slots and placeholders.
func Banking() *domain.Workflow {
	b := dsl.New()

	b.Add("welcome").
		Title("Welcome").
		Start("Welcome to the bank. Do you want your balance or to report a lost card?").
		Go("balance", "balance").
		Go("lost_card", "lost card")

	b.Add("balance").
		Title("Balance Inquiry").
		Intent("Sure, let me check the balance of your {account_type} account.").
		Slots("account_type").
		Go("balance_result", "lookup")

	b.Add("balance_result").
		Title("Balance Result").
		Response("Your {account_type} account balance is available in the app. Anything else?").
		Go("goodbye", "done").
		Go("welcome", "restart")

	b.Add("lost_card").
		Title("Lost Card Report").
		Intent("I am sorry to hear that. I will block the card ending in {card_digits}.").
		Slots("card_digits", "city").
		Go("card_blocked", "block")

	b.Add("card_blocked").
		Title("Card Blocked").
		Response("The card ending in {card_digits} is blocked. A new one will be sent to {city}.").
		Go("goodbye", "done")

	b.Add("goodbye").
		Title("Goodbye").
		End("Thank you for calling. Goodbye!")

	return b.MustBuild()
}

var registry = map[string]func() *domain.Workflow{
	"greeting": Greeting,
	"banking":  Banking,
}

// Names lists the built-in samples.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a fresh copy of the named sample.
func Get(name string) (*domain.Workflow, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: sample %q", domain.ErrWorkflowNotFound, name)
	}
	return fn(), nil
}
