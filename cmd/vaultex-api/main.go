package main

import (
	"fmt"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/routes"
	"github.com/zsmartex/vaultex/services"
)

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	services.Initialize()

	r := routes.SetupRouter()
	r.Listen(":3000")
}
