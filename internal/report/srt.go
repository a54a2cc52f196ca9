package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// WriteSRT writes segments as SubRip subtitles, numbered from 1.
func WriteSRT(w io.Writer, segments []meeting.Segment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		end := seg.End
		if end < seg.Start {
			end = seg.Start
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(seg.Start), srtTimestamp(end), seg.Text)
	}
	return bw.Flush()
}

// srtTimestamp formats d as HH:MM:SS,mmm.
func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
