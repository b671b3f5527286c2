/*
Package runner drives a conversation over line-oriented IO.

The Runner owns the chat loop: it starts or resumes a session, reads user
lines through an IOHandler, handles the chat commands (/reset, /slots,
/quit) and writes replies back. Handlers decide the wire shape:

  - TextHandler: prompts and plain text for terminals and pipes.
  - JSONHandler: one JSON object per line for scripted hosts.

When configured with a session.Manager and a session ID, every turn is
persisted so a later run continues where the last one stopped.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, workflow); err != nil {
		log.Fatal(err)
	}
*/
package runner
