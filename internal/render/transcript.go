package render

import (
	"fmt"
	"io"

	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
)

// Lines projects the ordered transcript into display lines, one per
// message, tagged by speaker.
func Lines(messages []interview.Message) []string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		label := "AI"
		if msg.Speaker == interview.SpeakerUser {
			label = "You"
		}
		lines = append(lines, label+": "+msg.Text)
	}
	return lines
}

// Viewport renders the transcript into a fixed-height window whose bottom
// edge always tracks the latest entry.
type Viewport struct {
	w      io.Writer
	height int
}

// NewViewport creates a viewport writing to w. A height of zero or less
// means unbounded.
func NewViewport(w io.Writer, height int) *Viewport {
	return &Viewport{w: w, height: height}
}

// Render writes the visible tail of the transcript.
func (v *Viewport) Render(messages []interview.Message) {
	lines := Lines(messages)
	if v.height > 0 && len(lines) > v.height {
		lines = lines[len(lines)-v.height:]
	}
	for _, line := range lines {
		fmt.Fprintln(v.w, line)
	}
}
