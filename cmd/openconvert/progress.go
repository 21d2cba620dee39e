package main

import (
	"fmt"
	"io"
	"sync"

	"openconvert/internal/queue"
)

// progressRenderer prints one line per item status transition so a long
// conversion run stays observable without redrawing tables.
type progressRenderer struct {
	mu   sync.Mutex
	out  io.Writer
	seen map[string]queue.Status
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, seen: make(map[string]queue.Status)}
}

// Render implements queue.Renderer.
func (p *progressRenderer) Render(snapshot queue.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, item := range snapshot.Items {
		previous, known := p.seen[item.ID]
		if known && previous == item.Status {
			continue
		}
		p.seen[item.ID] = item.Status

		switch item.Status {
		case queue.StatusProcessing:
			fmt.Fprintf(p.out, "Converting %s (%s -> %s)...\n", item.FileName, item.Source, item.Target)
		case queue.StatusDone:
			fmt.Fprintf(p.out, "Converted %s -> %s\n", item.FileName, item.OutputFileName)
		case queue.StatusError:
			fmt.Fprintf(p.out, "Failed %s: %s\n", item.FileName, item.ErrorMessage)
		}
	}
}
