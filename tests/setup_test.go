package main

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/internal/core"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/events"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/queue"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/registry"
	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/runtime"
)

var (
	setup = &Setup{}
)

type Setup struct {
	db  database.Database
	que queue.Queue
	svc *core.Service
}

func init() {
	// set in run.sh script for test harness; without them these tests skip
	pgURL := os.Getenv("NOMAD_TEST_PG_URL")
	rdURL := os.Getenv("NOMAD_TEST_RD_URL")
	if pgURL == "" || rdURL == "" {
		return
	}
	fmt.Println("Test Postgres Location:", pgURL)
	fmt.Println("Test Redis Location:", rdURL)

	if err := database.Migrate(pgURL); err != nil {
		panic(err)
	}

	dbconn, err := database.NewPostgres(&database.Options{URL: pgURL})
	if err != nil {
		panic(err)
	}
	setup.db = dbconn

	setup.que, err = queue.NewAsynqQueue(&queue.Options{
		URL:            rdURL,
		MaxAttempts:    2,
		RetryBaseDelay: 1 * time.Second,
		Retention:      10 * time.Minute,
	})
	if err != nil {
		panic(err)
	}

	dataDir, err := os.MkdirTemp("", "nomad-test-*")
	if err != nil {
		panic(err)
	}

	svc, err := core.NewService(
		setup.db,
		setup.que,
		registry.New(setup.db),
		runtime.NewDocker(),
		events.NewMemory(),
		&core.Options{Worker: true, DataDir: dataDir},
	)
	if err != nil {
		panic(err)
	}
	setup.svc = svc

	go svc.Run()
}

// requireSetup skips tests when no test harness is configured.
func requireSetup(t *testing.T) {
	if setup.svc == nil {
		t.Skip("NOMAD_TEST_PG_URL / NOMAD_TEST_RD_URL not set")
	}
}
