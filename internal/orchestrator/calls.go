package orchestrator

import "context"

// Start signs in (or registers) and starts a game. It returns once the chain
// has been committed or dropped.
func (o *Orchestrator) Start(ctx context.Context, req StartRequest) (View, error) {
	reply := make(chan Result, 1)
	return o.call(ctx, Start{StartRequest: req, Reply: reply}, reply)
}

// Guess submits one letter, retrying through token refreshes as needed.
func (o *Orchestrator) Guess(ctx context.Context, letter string) (View, error) {
	reply := make(chan Result, 1)
	return o.call(ctx, Guess{Letter: letter, Reply: reply}, reply)
}

// PlayAgain starts a new game with the stored credentials. An empty language
// reuses the previous one.
func (o *Orchestrator) PlayAgain(ctx context.Context, language string) (View, error) {
	reply := make(chan Result, 1)
	return o.call(ctx, PlayAgain{Language: language, Reply: reply}, reply)
}

func (o *Orchestrator) Quit(ctx context.Context) (View, error) {
	reply := make(chan Result, 1)
	return o.call(ctx, Quit{Reply: reply}, reply)
}

// View returns the current snapshot.
func (o *Orchestrator) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := o.post(ctx, GetView{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-o.ctx.Done():
		return View{}, ErrClosed
	}
}

// Watch subscribes out to view snapshots under id. out should be buffered;
// it is closed when the watcher falls behind or the orchestrator stops.
func (o *Orchestrator) Watch(ctx context.Context, id string, out chan View) error {
	return o.post(ctx, Watch{ID: id, Outbox: out})
}

func (o *Orchestrator) Unwatch(ctx context.Context, id string) error {
	return o.post(ctx, Unwatch{ID: id})
}

// Close stops the owner goroutine. Chains in flight are abandoned.
func (o *Orchestrator) Close() {
	o.cancel()
}

func (o *Orchestrator) call(ctx context.Context, m Msg, reply chan Result) (View, error) {
	if err := o.post(ctx, m); err != nil {
		return View{}, err
	}
	select {
	case r := <-reply:
		return r.View, r.Err
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-o.ctx.Done():
		return View{}, ErrClosed
	}
}

func (o *Orchestrator) post(ctx context.Context, m Msg) error {
	select {
	case o.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.ctx.Done():
		return ErrClosed
	}
}
