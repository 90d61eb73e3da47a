package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/aretw0/stylist/internal/presentation/tui"
	"github.com/aretw0/stylist/pkg/domain"
)

// ErrUnknownSession is returned when inspecting or removing a session that was never persisted.
var ErrUnknownSession = errors.New("session not found")

// ListSessions prints one line per persisted session.
func ListSessions(ctx context.Context, rt *Runtime, w io.Writer) error {
	ids, err := rt.Engine.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		printSystemMessage(w, "No sessions found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTEP\tMESSAGES\tLIKED")
	for _, id := range ids {
		sess, err := rt.Engine.Open(ctx, id)
		if err != nil {
			return err
		}
		snap := sess.Snapshot()
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", id, snap.StepName, len(snap.Messages), len(snap.Liked))
		_ = rt.Engine.CloseSession(ctx, id)
	}
	return tw.Flush()
}

// InspectSession prints a persisted session, as JSON or as a readable transcript.
func InspectSession(ctx context.Context, rt *Runtime, id string, asJSON bool, w io.Writer) error {
	if err := requireSession(ctx, rt, id); err != nil {
		return err
	}
	sess, err := rt.Engine.Open(ctx, id)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Engine.CloseSession(ctx, id) }()

	snap := sess.Snapshot()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	fmt.Fprintf(w, "Session: %s\nStep:    %s\nLiked:   %v\n\n", id, snap.StepName, snap.Liked)
	for _, m := range snap.Messages {
		out, err := tui.FormatMessage(m, tui.PlainRenderer)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	}
	return nil
}

// RemoveSession deletes every slot of a persisted session.
func RemoveSession(ctx context.Context, rt *Runtime, id string) error {
	if err := requireSession(ctx, rt, id); err != nil {
		return err
	}
	return rt.Engine.Delete(ctx, id)
}

func requireSession(ctx context.Context, rt *Runtime, id string) error {
	if !domain.ValidSessionID(id) {
		return domain.ErrInvalidSessionID
	}
	ids, err := rt.Engine.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if !slices.Contains(ids, id) {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return nil
}
