package main

import (
	"github.com/b0bbywan/go-powermenu/cli"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Fatal("[%s] %v", config.AppName, err)
	}
}
