package main

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"
)

// poller owns the refresh cycle: fetch, render, broadcast. Timer ticks and
// palette changes both land in run, so refreshes never overlap.

type poller struct {
	source       TrackSource
	renderer     *Renderer
	view         *viewState
	interval     time.Duration
	fetchTimeout time.Duration
	publish      func(Figure)
	trigger      chan struct{}

	mu              sync.Mutex
	lastIndividuals []Individual
	lastPalette     []string
	lastFig         *Figure
	lastFetchMs     int64
}

func newPoller(source TrackSource, renderer *Renderer, view *viewState, interval, fetchTimeout time.Duration) *poller {
	return &poller{
		source:       source,
		renderer:     renderer,
		view:         view,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		publish:      func(Figure) {},
		trigger:      make(chan struct{}, 1),
	}
}

func (p *poller) run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.refresh(ctx)
			t.Reset(p.interval)
		case <-p.trigger:
			p.refresh(ctx)
		}
	}
}

// requestRefresh asks run for an out-of-band refresh. Requests arriving while
// one is already pending are folded into it.
func (p *poller) requestRefresh() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// refresh performs one cycle. On fetch failure the previous individuals stay
// in place; they are redrawn only when the palette changed since the last
// render.
func (p *poller) refresh(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()
	individuals, err := p.source.Fetch(cctx)
	palette, viewport := p.view.snapshot()
	if err != nil {
		log.Printf("poll error: %v", err)
		p.recolor(palette, viewport)
		return err
	}
	log.Printf("fetched individuals: %d", len(individuals))

	fig := p.renderer.Render(individuals, palette, viewport)

	p.mu.Lock()
	p.lastIndividuals = individuals
	p.lastPalette = palette
	p.lastFig = &fig
	p.lastFetchMs = time.Now().UnixMilli()
	p.mu.Unlock()

	p.publish(fig)
	return nil
}

func (p *poller) recolor(palette []string, viewport *Viewport) {
	p.mu.Lock()
	if p.lastFig == nil || slices.Equal(palette, p.lastPalette) {
		p.mu.Unlock()
		return
	}
	fig := p.renderer.Render(p.lastIndividuals, palette, viewport)
	p.lastPalette = palette
	p.lastFig = &fig
	p.mu.Unlock()

	log.Printf("palette applied to previous individuals: %d", len(fig.Data))
	p.publish(fig)
}

// lastFigure returns the most recent successfully rendered figure.
func (p *poller) lastFigure() (Figure, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastFig == nil {
		return Figure{}, false
	}
	return *p.lastFig, true
}

func (p *poller) lastSnapshot() ([]Individual, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastFig == nil {
		return nil, false
	}
	return p.lastIndividuals, true
}

func (p *poller) lastFetch() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFetchMs
}
