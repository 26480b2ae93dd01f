package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/module"
	"github.com/JannisHoch/conflict-model/processor"
)

func main() {
	core := module.NewCoreModule()
	core.Database.PostgresDatabase.OpenPool()
	defer core.Database.PostgresDatabase.ClosePool()

	if os.Getenv(constant.EnvRunMode) == "batch" {
		batch(core)
		return
	}

	core.WebModule.Init()
	core.WebModule.Serve()
}

func init() {
	godotenv.Load()
}

func batch(core module.CoreModule) {
	logger := core.Helper.LoggerHelper

	cfg, err := processor.LoadConfig()
	if err != nil {
		logger.LogErrAndExit(1, err, "Invalid Run Configuration")
	}

	evaluation, err := core.Processor.RunProcessor.ReferenceRun(cfg)
	if err != nil {
		logger.LogErrAndExit(1, err, "Reference Run Failed")
	}

	logger.LogAndContinue("Completed %d Runs", len(evaluation.Runs))
	for name, value := range evaluation.Mean {
		logger.LogAndContinue("Mean %s: %v", name, value)
	}
}
