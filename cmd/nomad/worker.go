package main

import (
	"log"
)

const (
	docWorker = `Run a Nomad background worker`
)

type optsWorker struct {
	optsGeneral
	optsDatabase
	optsQueue
	optsCore

	Catalog string `long:"catalog" env:"CATALOG" description:"Service catalog file to sync into the registry on start"`
}

func (c *optsWorker) Execute(args []string) error {
	// This runs a Nomad worker: it consumes download / benchmark / update
	// jobs from the queue and runs the recurring update check schedule.
	//
	// It does not serve the API to clients; run `nomad api` for that
	// (or run both if a single box is all you have).
	svc, err := buildAPI(&c.optsDatabase, &c.optsQueue, &c.optsCore, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	if c.Catalog != "" {
		if err = svc.SyncCatalog(c.Catalog); err != nil {
			return err
		}
		log.Println("Synced service catalog from", c.Catalog)
	}

	return svc.Run()
}
