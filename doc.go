/*
Package switchboard is a workflow dialogue engine for interactive voice
response systems.

A conversation is a directed graph of typed nodes (start, intent, response,
end) joined by labeled edges. A dialogue session walks the graph one user
message at a time: it fills the slots an intent node requires, asks an intent
classifier which output to follow and emits the templated content of the node
it lands on. Speech recognition and synthesis stay with the host; the engine
consumes and produces text only.

# Strategies

Slot extraction and intent classification each come in two flavors: fixed
heuristics (text patterns and keyword scoring) and a model-backed variant
that delegates to a ports.TextGenerator. Delegate failures never reach the
host. Model-backed strategies degrade to the heuristic answer or to the
documented default: the first resolvable output of the current node.

# Usage

	w, err := file.Load("flows/bank.yaml")
	if err != nil {
		log.Fatal(err)
	}

	eng, err := switchboard.New(switchboard.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess, reply, err := eng.StartSession(ctx, w)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Text)

	reply, err = sess.Submit(ctx, "my account_type is savings")

Errors that indicate a malformed workflow (domain.ErrNoStartNode,
domain.ErrUnknownTargetNode) are returned together with a Reply whose Error
field carries the matching domain.ErrorKind, so hosts can render them as
system messages.

The static analyzer is independent of sessions:

	report := eng.Analyze(w)
	for _, warn := range report.Warnings {
		fmt.Println(warn.Code, warn.Message)
	}
*/
package switchboard
