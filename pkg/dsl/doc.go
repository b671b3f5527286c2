/*
Package dsl provides a fluent builder for switchboard workflows.

It lets tests, samples and programmatic hosts define conversation graphs in
Go instead of YAML or JSON documents.

	b := dsl.New()

	b.Add("start").
		Start("Hello! How can I help you today?").
		Go("account", "account intent")

	b.Add("account").
		Intent("Which account? I have your {account_type}.").
		Slots("account_type").
		Go("bye", "done")

	b.Add("bye").
		End("Thank you for calling.")

	w, err := b.Build()
*/
package dsl
