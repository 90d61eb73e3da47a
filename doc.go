/*
Package stylist is a guided style-assistant session engine.

It walks a user through a fixed sequence of steps (welcome, photo, lifestyle,
outfit preferences, final request), keeps an append-only conversation log, tracks
the outfits the user liked and dispatches the conversation to an AI collaborator
for advice.

# Concept

The engine owns the conversation state; the host (CLI, HTTP server, MCP agent)
owns the I/O. Device capture, transcription, persistence and the AI call are
collaborators behind ports, so the same flow runs on a terminal, behind an HTTP
API or inside an agent.

# Usage

	ctx := context.Background()
	eng := stylist.New(stylist.WithStore(memory.NewStore()))
	defer eng.Close(ctx)

	sess, err := eng.Open(ctx, "alice")
	if err != nil {
		log.Fatal(err)
	}

	p, err := sess.Start(ctx) // Welcome -> Photo after the thinking delay
	if err != nil {
		log.Fatal(err)
	}
	msg, _ := p.Wait(ctx)
	fmt.Println(msg.Content)

Flow operations (Start, Capture, Recording, Continue, Submit) are only accepted at
the step that expects them and return domain.ErrStepMismatch otherwise. The work
they issue lands asynchronously; Session.Processing reports it and the returned
Pending resolves once it landed.

# Persistence

Each session persists three slots in a ports.KVStore: the conversation log, the
current step and the liked outfits. Reopening a session from the same store
resumes it without reseeding. Adapters exist for memory, files, Redis and Badger;
the middleware package adds encryption at rest and PII masking.
*/
package stylist
