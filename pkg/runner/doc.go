/*
Package runner implements the interactive terminal loop for a styling session.

It is the bridge between a stylist.Session and a line-oriented terminal.
The runner prints new conversation entries, reads one line per turn, and maps it
to the operation the current step accepts. Issued work is awaited before the
next prompt, so the transcript always reads in order.

# Key Components

  - Runner: The loop that drives one session until exit, EOF or interrupt.
  - TextHandler: Line input with sanitization and a background read pump.
  - LoadImage: Turns a photo path into a data URL for the capture step.

# Usage

	r := runner.NewRunner(
		runner.WithRenderer(tui.NewRenderer()),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, sess); err != nil {
		log.Fatal(err)
	}
*/
package runner
