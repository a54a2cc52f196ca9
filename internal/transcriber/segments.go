package transcriber

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// blankMarker is what whisper emits for stretches without speech.
const blankMarker = "[BLANK_AUDIO]"

// Collect drains src, trims every segment and joins the texts with single
// spaces in the order they were produced. Empty segments and silence
// markers are dropped.
func Collect(src SegmentSource) (string, []meeting.Segment, error) {
	var (
		segments []meeting.Segment
		texts    []string
	)

	for {
		seg, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("read segment %d: %w", len(segments), err)
		}

		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" || seg.Text == blankMarker {
			continue
		}
		seg.Index = len(segments)

		segments = append(segments, seg)
		texts = append(texts, seg.Text)
	}

	return strings.Join(texts, " "), segments, nil
}

// sliceSource replays already decoded segments.
type sliceSource struct {
	segments []meeting.Segment
	pos      int
}

func (s *sliceSource) Next() (meeting.Segment, error) {
	if s.pos >= len(s.segments) {
		return meeting.Segment{}, io.EOF
	}
	seg := s.segments[s.pos]
	s.pos++
	return seg, nil
}
