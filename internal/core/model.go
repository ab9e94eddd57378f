package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/utils"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// modelPullLine is one line of the model server's streaming pull response.
type modelPullLine struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error"`
}

type modelDownloadResult struct {
	ResourceID string `json:"resource_id"`
	Model      string `json:"model"`
}

// ModelDownload asks the local model server to pull a model, relaying the
// server's streamed layer progress. The model server owns the bytes on disk;
// we only record the installed resource once the pull succeeds.
func (h *handlers) ModelDownload(ctx context.Context, job *structs.Job, report queue.ProgressFunc) ([]byte, error) {
	p := &structs.ModelDownloadPayload{}
	if err := json.Unmarshal(job.Payload, p); err != nil {
		return nil, fmt.Errorf("%w undecodable payload: %v", errors.ErrValidation, err)
	}
	if p.Model == "" {
		return nil, fmt.Errorf("%w model name is required", errors.ErrValidation)
	}

	body, err := json.Marshal(map[string]string{"name": p.Model})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.opts.ModelServerURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d pulling %s", rsp.StatusCode, p.Model)
	}

	if err = h.relayPullProgress(job, rsp.Body, report); err != nil {
		return nil, err
	}

	resource := &structs.InstalledResource{
		ID:            utils.NewRandomID(),
		Type:          structs.ResourceModel,
		CollectionRef: p.Model,
		SourceURL:     h.opts.ModelServerURL,
		FilePath:      p.Model,
		InstalledAt:   timeNow(),
	}
	if err = h.db.InsertResource(resource); err != nil {
		return nil, err
	}

	report(100)
	h.broadcastProgress(job, 100)
	return json.Marshal(&modelDownloadResult{ResourceID: resource.ID, Model: p.Model})
}

// relayPullProgress reads the model server's newline-delimited JSON stream,
// translating per-layer byte counts into a rough overall percentage. The
// stream reports layers independently so the figure is indicative, not exact.
func (h *handlers) relayPullProgress(job *structs.Job, body io.Reader, report queue.ProgressFunc) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lastFlush := time.Time{}
	for sc.Scan() {
		line := &modelPullLine{}
		if err := json.Unmarshal(sc.Bytes(), line); err != nil {
			continue // non-JSON keepalives are fine to skip
		}
		if line.Error != "" {
			return fmt.Errorf("model server: %s", line.Error)
		}
		if line.Total <= 0 {
			continue
		}
		pct := int(line.Completed * 100 / line.Total)
		if pct > 99 {
			pct = 99
		}
		if time.Since(lastFlush) >= progressInterval {
			report(pct)
			h.broadcastProgress(job, pct)
			lastFlush = time.Now()
		}
	}
	return sc.Err()
}
