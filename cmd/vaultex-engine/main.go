package main

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/services"
	"github.com/zsmartex/vaultex/workers"
	"github.com/zsmartex/vaultex/workers/engines"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	services.Initialize()

	worker := engines.NewFillExecutorWorker(services.Trading)

	// Queue group so multiple engine instances split the stream; the
	// ledger guards serialize any two fills touching the same balance.
	_, err := config.Nats.QueueSubscribe(workers.FillsSubject, "vaultex-engine", func(m *nats.Msg) {
		worker.Process(m.Data)
	})
	if err != nil {
		config.Logger.Fatalf("Failed to subscribe to %s: %v", workers.FillsSubject, err)
	}

	config.Logger.Infof("vaultex-engine consuming %s", workers.FillsSubject)

	select {}
}
