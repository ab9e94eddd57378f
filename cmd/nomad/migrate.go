package main

import (
	"log"

	"github.com/Crosstalk-Solutions/project-nomad-sub001/pkg/database"
)

const (
	docMigrate = `Apply database migrations`
)

type optsMigrate struct {
	optsGeneral
	optsDatabase
}

func (c *optsMigrate) Execute(args []string) error {
	if err := database.Migrate(c.DatabaseURL); err != nil {
		return err
	}
	log.Println("Migrations applied")
	return nil
}
