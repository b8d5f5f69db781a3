package main

import (
	"context"
	"os"
	"runtime/debug"

	"qsr-forecast/services"
	"qsr-forecast/utils"
)

func runSmokeTest(ctx context.Context, logger *utils.Logger, configPath string) error {
	st := services.NewSmokeTest(logger,
		services.DependencyCheck(services.RequiredModules, debug.ReadBuildInfo),
		services.TrackingCheck(os.TempDir()),
		services.ConfigCheck(configPath),
	)

	results, err := st.Run(ctx)
	if printErr := st.Print(os.Stdout, results); printErr != nil {
		logger.Warn("Could not print smoke test report: %v", printErr)
	}
	return err
}
