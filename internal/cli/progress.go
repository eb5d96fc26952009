package cli

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"

	"docqa/internal/usecase"
)

// progressRenderer draws one bar per pipeline stage, created lazily when
// the first event for that stage arrives.
type progressRenderer struct {
	mu    sync.Mutex
	stage string
	bar   *progressbar.ProgressBar
}

func newProgressRenderer() *progressRenderer {
	return &progressRenderer{}
}

func (r *progressRenderer) update(p usecase.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch p.Stage {
	case "fetch":
		if r.stage != "fetch" {
			r.stage = "fetch"
			r.bar = newBar(p.DocsTotal, "[cyan]Fetching[reset]")
		}
		r.bar.Set(p.DocsDone)
	case "embed":
		if r.stage != "embed" {
			r.stage = "embed"
			r.bar = newBar(p.BatchesTotal, "[cyan]Embedding[reset]")
		}
		r.bar.Set(p.BatchesDone)
	}
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
