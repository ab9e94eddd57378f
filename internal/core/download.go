package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/utils"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	// flush progress to observers at most this often
	progressInterval = 2 * time.Second

	// without a known total size progress steps coarsely per chunk
	coarseStepBytes = 64 * 1024 * 1024
)

// handlers holds what the job handlers need; one instance serves all keys.
type handlers struct {
	db     database.Database
	bc     events.Broadcaster
	client *http.Client
	opts   *Options
}

// fileDownloadResult is the job result recorded on success.
type fileDownloadResult struct {
	ResourceID string `json:"resource_id"`
	FilePath   string `json:"file_path"`
	SizeBytes  int64  `json:"size_bytes"`
}

// FileDownload streams a remote file to disk. The body lands in a .partial
// file first and is renamed into place only once fully written, so a crashed
// or failed attempt never leaves a truncated file at the final path. Retries
// restart from zero.
func (h *handlers) FileDownload(ctx context.Context, job *structs.Job, report queue.ProgressFunc) ([]byte, error) {
	p := &structs.FileDownloadPayload{}
	if err := json.Unmarshal(job.Payload, p); err != nil {
		return nil, fmt.Errorf("%w undecodable payload: %v", errors.ErrValidation, err)
	}

	dest := p.Filepath
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(h.opts.DataDir, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w bad url %s: %v", errors.ErrValidation, p.URL, err)
	}
	rsp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", p.URL, rsp.StatusCode)
	}

	total := p.ExpectedBytes
	if total <= 0 && rsp.ContentLength > 0 {
		total = rsp.ContentLength
	}

	written, err := h.streamToFile(job, rsp.Body, dest, total, report)
	if err != nil {
		return nil, err
	}

	resource := &structs.InstalledResource{
		ID:            utils.NewRandomID(),
		Type:          structs.ToResourceType(p.Filetype),
		CollectionRef: p.CollectionRef,
		Version:       p.Version,
		SourceURL:     p.URL,
		FilePath:      dest,
		SizeBytes:     written,
		InstalledAt:   timeNow(),
	}
	if err := h.db.InsertResource(resource); err != nil {
		return nil, err
	}

	report(100)
	h.broadcastProgress(job, 100)
	return json.Marshal(&fileDownloadResult{
		ResourceID: resource.ID,
		FilePath:   dest,
		SizeBytes:  written,
	})
}

// streamToFile copies body to <dest>.partial then renames it into place,
// reporting percentage progress along the way.
func (h *handlers) streamToFile(job *structs.Job, body io.Reader, dest string, total int64, report queue.ProgressFunc) (int64, error) {
	partial := dest + ".partial"
	f, err := os.Create(partial)
	if err != nil {
		return 0, err
	}

	var written int64
	lastFlush := time.Time{}
	buf := make([]byte, 1024*1024)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				os.Remove(partial)
				return 0, werr
			}
			written += int64(n)
			if time.Since(lastFlush) >= progressInterval {
				pct := coarsePct(written, total)
				report(pct)
				h.broadcastProgress(job, pct)
				lastFlush = time.Now()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			os.Remove(partial)
			return 0, rerr
		}
	}
	if err = f.Close(); err != nil {
		os.Remove(partial)
		return 0, err
	}
	if err = os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return 0, err
	}
	return written, nil
}

// coarsePct maps bytes written to a 0-99 percentage; 100 is reserved for the
// post-commit report. Unknown totals advance one point per coarse step.
func coarsePct(written, total int64) int {
	var pct int
	if total > 0 {
		pct = int(written * 100 / total)
	} else {
		pct = int(written / coarseStepBytes)
	}
	if pct > 99 {
		pct = 99
	}
	return pct
}

func (h *handlers) broadcastProgress(job *structs.Job, pct int) {
	err := h.bc.Publish(structs.TopicDownloads, &structs.DownloadEvent{
		JobID:     job.ID,
		Queue:     job.Queue,
		Progress:  pct,
		Timestamp: timeNow(),
	})
	if err != nil {
		log.Println("[Handlers]", "failed to publish progress for", job.ID, err)
	}
}
