package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

// settings keys update checks persist under
const (
	keyUpdateAvailable = "update.available"
	keyUpdateLatest    = "update.latest"
	keyUpdateCheckedAt = "update.checked_at"
)

// releaseManifest is the remote release descriptor.
type releaseManifest struct {
	Version string `json:"version"`
}

// UpdateCheck fetches the release manifest & records whether a newer version
// than the running one exists. It only ever reports; applying an update is a
// separate, operator-driven step.
func (h *handlers) UpdateCheck(ctx context.Context, job *structs.Job, report queue.ProgressFunc) ([]byte, error) {
	p := &structs.UpdateCheckPayload{}
	if err := json.Unmarshal(job.Payload, p); err != nil {
		return nil, fmt.Errorf("%w undecodable payload: %v", errors.ErrValidation, err)
	}
	manifestURL := p.ManifestURL
	if manifestURL == "" {
		manifestURL = h.opts.ManifestURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w bad manifest url %s: %v", errors.ErrValidation, manifestURL, err)
	}
	rsp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching manifest %s: unexpected status %d", manifestURL, rsp.StatusCode)
	}
	report(50)

	manifest := &releaseManifest{}
	if err = json.NewDecoder(io.LimitReader(rsp.Body, 1024*1024)).Decode(manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %v", manifestURL, err)
	}

	latest, err := semver.NewVersion(manifest.Version)
	if err != nil {
		return nil, fmt.Errorf("manifest %s carries unparseable version %q: %v", manifestURL, manifest.Version, err)
	}
	current, err := semver.NewVersion(h.opts.Version)
	if err != nil {
		return nil, fmt.Errorf("running version %q is unparseable: %v", h.opts.Version, err)
	}

	status := &structs.UpdateStatus{
		CurrentVersion:  current.String(),
		LatestVersion:   latest.String(),
		UpdateAvailable: latest.GreaterThan(current),
		CheckedAt:       timeNow(),
	}
	if err = h.persistUpdateStatus(status); err != nil {
		return nil, err
	}
	report(100)
	return json.Marshal(status)
}

func (h *handlers) persistUpdateStatus(s *structs.UpdateStatus) error {
	if err := h.db.SetValue(keyUpdateAvailable, strconv.FormatBool(s.UpdateAvailable)); err != nil {
		return err
	}
	if err := h.db.SetValue(keyUpdateLatest, s.LatestVersion); err != nil {
		return err
	}
	return h.db.SetValue(keyUpdateCheckedAt, strconv.FormatInt(s.CheckedAt, 10))
}
