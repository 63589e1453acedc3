package report

import (
	"io"

	"gopkg.in/cheggaaa/pb.v1"
)

// Progress is a step counter for incremental runs. The zero value and a
// Progress built with a nil writer do nothing.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a bar of total steps writing to out.
func NewProgress(total int, out io.Writer) *Progress {
	if out == nil || total <= 0 {
		return &Progress{}
	}
	bar := pb.New(total)
	bar.Output = out
	bar.ShowSpeed = false
	bar.SetWidth(80)
	bar.ForceWidth = true
	bar.Prefix("steps ")
	bar.Start()
	return &Progress{bar: bar}
}

// Increment advances the bar by one step.
func (p *Progress) Increment() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Increment()
}

// Finish stops the bar and prints its final state.
func (p *Progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Finish()
}
