package stylist_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/adapters/mockai"
)

// ExampleNew walks a session through the whole guided flow with instant collaborators.
func ExampleNew() {
	ctx := context.Background()
	eng := stylist.New(
		stylist.WithStore(memory.NewStore()),
		stylist.WithReplier(mockai.New(mockai.WithDelay(0))),
		stylist.WithAdvanceDelay(0),
	)
	defer eng.Close(ctx)

	sess, err := eng.Open(ctx, "example")
	if err != nil {
		log.Fatal(err)
	}

	steps := []func() (*stylist.Pending, error){
		func() (*stylist.Pending, error) { return sess.Start(ctx) },
		func() (*stylist.Pending, error) { return sess.Capture(ctx, "data:image/jpeg;base64,AAAA") },
		func() (*stylist.Pending, error) { return sess.Recording(ctx, nil) },
		func() (*stylist.Pending, error) {
			if _, err := sess.ToggleLike(ctx, 2); err != nil {
				return nil, err
			}
			return sess.Continue(ctx)
		},
	}
	for _, step := range steps {
		p, err := step()
		if err != nil {
			log.Fatal(err)
		}
		if _, err := p.Wait(ctx); err != nil {
			log.Fatal(err)
		}
		fmt.Println(sess.Step())
	}

	p, err := sess.Submit(ctx, "Ideas for a summer wedding?")
	if err != nil {
		log.Fatal(err)
	}
	reply, _ := p.Wait(ctx)
	fmt.Println(reply.Role)
	// Output:
	// photo
	// lifestyle
	// outfit_preferences
	// final_request
	// assistant
}
