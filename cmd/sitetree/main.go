/*
This command serves the sites declared in its configuration, with the
pages loaded from the page files.

For the list of command line options, run:

	sitetree -help

For the format of the config file, see the documentation of the config
package.
*/
package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/zalando/sitetree"
	"github.com/zalando/sitetree/config"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("Error processing config: %s", err)
	}

	log.Fatal(sitetree.Run(cfg.ToOptions()))
}
