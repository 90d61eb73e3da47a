package runtime

import (
	"context"

	"github.com/aretw0/stylist/pkg/domain"
)

// Pending tracks a task issued to a session. It resolves exactly once.
type Pending struct {
	done chan struct{}
	msg  *domain.Message
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func resolved(msg *domain.Message, err error) *Pending {
	p := newPending()
	p.resolve(msg, err)
	return p
}

func (p *Pending) resolve(msg *domain.Message, err error) {
	p.msg = msg
	p.err = err
	close(p.done)
}

// Done is closed once the task has landed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the task lands or ctx is done. Giving up on the wait does not
// cancel the task. The returned message is the one the task appended, if any.
func (p *Pending) Wait(ctx context.Context) (*domain.Message, error) {
	select {
	case <-p.done:
		return p.msg, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
