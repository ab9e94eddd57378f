package core

import (
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// queues holding jobs that project into the unified download view
var downloadQueues = []string{structs.QueueDownloads, structs.QueueModels}

// aggregator builds the unified download view on demand. Nothing is cached;
// each call reads the queues so the view can never drift from them.
type aggregator struct {
	qu queue.Queue
}

// Downloads lists live (waiting / active / delayed) download jobs across all
// download queues as one view, sorted by descending progress. Jobs with
// equal progress keep their queue listing order. An optional filetype
// narrows the result ("" = all).
func (a *aggregator) Downloads(filetype string) ([]*structs.DownloadJobView, error) {
	out := []*structs.DownloadJobView{}
	for _, q := range downloadQueues {
		jobs, err := a.qu.Jobs(q, structs.LiveStates)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			v := structs.ViewForJob(j)
			if v == nil {
				continue
			}
			if filetype != "" && v.Filetype != filetype {
				continue
			}
			out = append(out, v)
		}
	}
	structs.SortDownloadViews(out)
	return out, nil
}
