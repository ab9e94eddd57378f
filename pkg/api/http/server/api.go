package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/api"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/api/http/common"
	ie "github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/errors"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/structs"
)

const (
	wait = 30 * time.Second
)

type Server struct {
	addr       string
	static     string
	debug      bool
	svc        api.API
	exit       chan os.Signal
	httpserver *http.Server
}

func (s *Server) ServeForever(svc api.API) error {
	s.svc = svc

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_SERVICES_STATUS, s.ServicesStatus).Methods(http.MethodGet)
	router.HandleFunc(common.API_SERVICES, s.Services).Methods(http.MethodGet)
	router.HandleFunc(common.API_SERVICE_INSTALL, s.InstallService).Methods(http.MethodPost)
	router.HandleFunc(common.API_DOWNLOADS, s.Downloads).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(common.API_MODELS, s.CreateModelDownload).Methods(http.MethodPost)
	router.HandleFunc(common.API_RESOURCES, s.Resources).Methods(http.MethodGet)
	router.HandleFunc(common.API_RESOURCE, s.DeleteResource).Methods(http.MethodDelete)
	router.HandleFunc(common.API_BENCHMARKS, s.CreateBenchmark).Methods(http.MethodPost)
	router.HandleFunc(common.API_BENCHMARK, s.Benchmark).Methods(http.MethodGet)
	router.HandleFunc(common.API_UPDATES, s.UpdateStatus).Methods(http.MethodGet)
	router.HandleFunc(common.API_UPDATES_CHECK, s.CheckForUpdates).Methods(http.MethodPost)
	router.HandleFunc(common.API_EVENTS, s.Events).Methods(http.MethodGet)

	if s.static != "" {
		log.Println("Serving static files from", s.static)
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.static)))
	}

	if s.debug {
		log.Println("Debug enabled, adding per-request logging middleware")
		router.Use(loggingMiddleware)
	}

	s.httpserver = &http.Server{
		Handler:     router,
		Addr:        s.addr,
		ReadTimeout: 15 * time.Second,
		// no write timeout; installs block and the event stream is long lived
	}

	go func() {
		log.Println("Listening on", s.httpserver.Addr)
		if err := s.httpserver.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	signal.Notify(s.exit, os.Interrupt)
	defer s.Close()
	<-s.exit

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	s.httpserver.Shutdown(ctx)
	os.Exit(0)
	return nil
}

func (s *Server) Services(w http.ResponseWriter, r *http.Request) {
	includeDeps := r.URL.Query().Get("include_dependencies") == "true"

	items, err := s.svc.Services(includeDeps)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		log.Println(r.URL, "returned", len(items), "items")
	}

	s.encode(w, items)
}

func (s *Server) ServicesStatus(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ServicesStatus(r.Context())
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, items)
}

func (s *Server) InstallService(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// blocks until the install run finishes; progress streams via /events
	resp, err := s.svc.InstallService(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) Downloads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getDownloads(w, r)
	case http.MethodPost:
		s.createDownload(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getDownloads(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListDownloadJobs(r.URL.Query().Get("filetype"))
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		log.Println(r.URL, "returned", len(items), "items")
	}
	s.encode(w, items)
}

func (s *Server) createDownload(w http.ResponseWriter, r *http.Request) {
	p := &structs.FileDownloadPayload{}
	if err := unmarshalJson(w, r, p); err != nil {
		return
	}

	resp, err := s.svc.EnqueueDownload(p)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) CreateModelDownload(w http.ResponseWriter, r *http.Request) {
	p := &structs.ModelDownloadPayload{}
	if err := unmarshalJson(w, r, p); err != nil {
		return
	}

	resp, err := s.svc.EnqueueModelDownload(p)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) Resources(w http.ResponseWriter, r *http.Request) {
	rtype := structs.ToResourceType(r.URL.Query().Get("type"))
	if rtype == "" && r.URL.Query().Get("type") != "" {
		http.Error(w, "bad resource type", http.StatusBadRequest)
		return
	}

	items, err := s.svc.Resources(rtype)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, items)
}

func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteResource(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, &common.DeleteResponse{Deleted: true})
}

func (s *Server) CreateBenchmark(w http.ResponseWriter, r *http.Request) {
	in := &struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	}{}
	if err := unmarshalJson(w, r, in); err != nil {
		return
	}

	resp, err := s.svc.DispatchBenchmark(structs.BenchmarkKind(in.Kind), in.ID)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) Benchmark(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := s.svc.BenchmarkJob(id)
	if err != nil && !errors.Is(err, ie.ErrNotFound) {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	// the job may have been purged while the persisted result lives on
	result, rerr := s.svc.BenchmarkResult(id)
	if rerr != nil && !errors.Is(rerr, ie.ErrNotFound) {
		http.Error(w, rerr.Error(), mapError(rerr))
		return
	}
	if job == nil && result == nil {
		http.Error(w, "benchmark not found", http.StatusNotFound)
		return
	}
	s.encode(w, &common.BenchmarkResponse{Job: job, Result: result})
}

func (s *Server) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.UpdateStatus()
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) CheckForUpdates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.CheckForUpdates()
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	s.encode(w, resp)
}

func (s *Server) encode(w http.ResponseWriter, obj interface{}) {
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) Close() error {
	s.exit <- os.Interrupt
	return nil
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func NewServer(addr, static string, debug bool) *Server {
	return &Server{
		static: static,
		addr:   addr,
		debug:  debug,
		exit:   make(chan os.Signal, 1),
	}
}
