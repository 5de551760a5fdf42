package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mtimer/mtimer-go/pkg/discovery"
	"github.com/mtimer/mtimer-go/pkg/presenter"
)

// Announcer advertises the web API over mDNS and keeps the advertised timer
// count current.
type Announcer struct {
	adv    discovery.Advertiser
	info   discovery.ServiceInfo
	logger *slog.Logger

	counts    chan int
	unobserve func()
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewAnnouncer creates an announcer for the given instance and port.
func NewAnnouncer(adv discovery.Advertiser, instance string, port int, logger *slog.Logger) *Announcer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{
		adv: adv,
		info: discovery.ServiceInfo{
			Instance: instance,
			Port:     port,
		},
		logger: logger,
		counts: make(chan int, 1),
	}
}

// Start registers the service and follows timer additions in pres.
func (a *Announcer) Start(ctx context.Context, pres *presenter.Memory) error {
	a.info.Timers = len(pres.IDs())
	info := a.info
	if err := a.adv.Advertise(ctx, &info); err != nil {
		return err
	}
	a.logger.Info("advertising", "service", discovery.ServiceType, "instance", a.info.Instance, "port", a.info.Port)

	ctx, a.cancel = context.WithCancel(ctx)
	a.unobserve = pres.Observe(func(ev presenter.Event) {
		if ev.Kind != presenter.EventRendered {
			return
		}
		a.offer(len(pres.IDs()))
	})

	a.wg.Add(1)
	go a.run(ctx)
	return nil
}

// offer queues the latest count, replacing one not yet sent.
func (a *Announcer) offer(n int) {
	for {
		select {
		case a.counts <- n:
			return
		default:
		}
		select {
		case <-a.counts:
		default:
		}
	}
}

func (a *Announcer) run(ctx context.Context) {
	defer a.wg.Done()
	for {
		select {
		case n := <-a.counts:
			if n == a.info.Timers {
				continue
			}
			a.info.Timers = n
			info := a.info
			if err := a.adv.Update(&info); err != nil {
				a.logger.Warn("failed to update advertisement", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop withdraws the advertisement.
func (a *Announcer) Stop() error {
	if a.unobserve != nil {
		a.unobserve()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	return a.adv.Stop()
}
