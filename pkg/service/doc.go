// Package service assembles the timer core into a runnable unit.
//
// TimerService owns the event loop and builds the registry, countdown engine
// and persistence reconciler around a caller-supplied store and presenter.
// All timer operations are marshalled onto the loop, so front-ends can call
// the service from any goroutine.
//
// Example usage:
//
//	pres := presenter.NewMemory()
//	store, _ := kvstore.Open("file", "/home/me/.mtimer/timers.json")
//
//	svc, err := service.New(service.Config{Store: store, Presenter: pres})
//	svc.Start(ctx)
//	defer svc.Stop()
//
//	id, _ := svc.Add(ctx)
//	svc.Start(ctx, id)
//
// Start loads the persisted snapshot and resumes running timers; Stop takes a
// final snapshot while running timers are still marked running, so the next
// Start resumes them with the elapsed time subtracted.
package service
