package main

import (
	"flag"
	"github.com/bundlectl/bundlectl/console"
	"github.com/sirupsen/logrus"
)

var simLog = logrus.WithField("module", "consolesim")

func main() {
	var (
		listen    string
		inventory string
	)
	flag.StringVar(&listen, "listen", ":4502", "net.Listen() string, e.g. addr:port")
	flag.StringVar(&inventory, "inventory", "", "yaml file describing the simulated bundle inventory")
	flag.Parse()

	logrus.SetLevel(logrus.DebugLevel)

	var bundles []*console.SimBundle
	if inventory != "" {
		var err error
		bundles, err = console.LoadInventory(inventory)
		if err != nil {
			simLog.WithError(err).Fatal("cannot load inventory")
		}
	}

	sim := console.NewSim(bundles)
	simLog.Infof("serving %d bundles on %s", len(bundles), listen)
	if err := sim.ListenAndServe(listen); err != nil {
		simLog.Fatal(err)
	}
}
