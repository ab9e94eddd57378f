package main

import (
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/api/http/server"
)

const (
	docApi = `Run the API server`
)

type optsAPI struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsCore

	Addr string `long:"addr" env:"ADDR" description:"Address to bind to" default:"localhost:8200"`

	StaticDir string `long:"static-dir" env:"STATIC_DIR" default:"" description:"Serve static files from this directory"`
}

func (c *optsAPI) Execute(args []string) error {
	// This runs an API server (http) so callers can interact with Nomad over
	// the network. It does not consume jobs: installs run inline here, but
	// downloads / benchmarks / update checks are enqueued for a worker
	// process (`nomad worker`) to pick up.
	svc, err := buildAPI(&c.optsDatabase, &c.optsQueue, &c.optsCore, false)
	if err != nil {
		return err
	}

	s := server.NewServer(c.Addr, c.StaticDir, c.Debug)
	return s.ServeForever(svc)
}
