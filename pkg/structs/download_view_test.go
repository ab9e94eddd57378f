package structs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDownloadViews(t *testing.T) {
	given := []*DownloadJobView{
		{JobID: "a", Progress: 0},
		{JobID: "b", Progress: 40},
		{JobID: "c", Progress: 0},
		{JobID: "d", Progress: 70},
	}

	SortDownloadViews(given)

	assert.Equal(t, "d", given[0].JobID)
	assert.Equal(t, "b", given[1].JobID)
	// ties keep enqueue order
	assert.Equal(t, "a", given[2].JobID)
	assert.Equal(t, "c", given[3].JobID)
}

func TestViewForJob(t *testing.T) {
	file, _ := json.Marshal(&FileDownloadPayload{URL: "http://host/x.zim", Filepath: "/data/x.zim", Filetype: "zim"})
	model, _ := json.Marshal(&ModelDownloadPayload{Model: "llama3.2:3b"})

	cases := []struct {
		Name   string
		Given  *Job
		Expect *DownloadJobView
	}{
		{
			"FileDownload",
			&Job{ID: "j1", Key: KeyFileDownload, Payload: file, Progress: 40},
			&DownloadJobView{JobID: "j1", Source: "http://host/x.zim", Target: "/data/x.zim", Filetype: "zim", Progress: 40},
		},
		{
			"ModelDownload",
			&Job{ID: "j2", Key: KeyModelDownload, Payload: model, Progress: 70},
			&DownloadJobView{JobID: "j2", Source: "llama3.2:3b", Target: "llama3.2:3b", Filetype: "model", Progress: 70},
		},
		{
			"UnknownKey",
			&Job{ID: "j3", Key: KeyBenchmark, Payload: []byte(`{}`)},
			nil,
		},
		{
			"BadPayload",
			&Job{ID: "j4", Key: KeyFileDownload, Payload: []byte(`not-json`)},
			nil,
		},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, ViewForJob(c.Given))
		})
	}
}
