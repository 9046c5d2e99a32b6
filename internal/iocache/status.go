package iocache

import (
	"fmt"
	"io"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/dustin/go-humanize"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if status.Location != "" {
		_, _ = fmt.Fprintf(w, "Location: %s\n", status.Location)
	}
	_, _ = fmt.Fprintf(w, "Cached Assignments: %d\n", status.TotalEntries)
	_, _ = fmt.Fprintf(w, "Cached Comments: %s\n", humanize.Comma(int64(status.TotalRecords)))
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s (%s)\n", status.LastEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastEntryTime))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s (%s)\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestEntryTime))
	}
	_, _ = fmt.Fprintf(w, "Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}
