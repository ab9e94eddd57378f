package structs

import (
	"sort"
)

// DownloadJobView is the client-facing unification of download jobs across
// queues. It is recomputed on every read & never persisted.
type DownloadJobView struct {
	JobID    string `json:"job_id"`
	Source   string `json:"source"` // url or model name
	Target   string `json:"target"` // filepath or model name
	Filetype string `json:"filetype"`
	Progress int    `json:"progress"`
}

// SortDownloadViews orders by descending progress so active downloads
// surface above queued ones. The sort is stable; ties keep enqueue order.
func SortDownloadViews(in []*DownloadJobView) {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].Progress > in[j].Progress
	})
}
