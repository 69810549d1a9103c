package main

import (
	"mc-link/cmd"
	"mc-link/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger()
	defer logger.Sync()
	cmd.Execute()
}
