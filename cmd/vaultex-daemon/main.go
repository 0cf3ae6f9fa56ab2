package main

import (
	"fmt"
	"os"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/workers/daemons"
)

func CreateWorker(id string) daemons.Worker {
	switch id {
	case "cron_job":
		return daemons.NewCronJob()
	default:
		return nil
	}
}

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	ARVG := os.Args[1:]

	for _, id := range ARVG {
		worker := CreateWorker(id)
		if worker == nil {
			config.Logger.Fatalf("Unknown daemon: %s", id)
		}

		fmt.Println("Start vaultex-daemon: " + id)
		worker.Start()
	}
}
