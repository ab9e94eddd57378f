package server

import (
	"fmt"
	"net/http"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

var streamTopics = map[string]string{
	"install":   structs.TopicInstall,
	"downloads": structs.TopicDownloads,
}

// Events streams install / download progress to the caller as Server-Sent
// Events. Delivery is best effort: a client that reconnects re-reads current
// state from the list endpoints, missed events are not replayed.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	topic, ok := streamTopics[r.URL.Query().Get("topic")]
	if !ok {
		http.Error(w, "topic must be one of: install, downloads", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := s.svc.Subscribe(topic)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-sub.C:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
