// @title Hackfest API
// @version 1.0
// @description Backend API for hackathon registration, teams, judging, attendance and chat

// @securityDefinitions.apikey BearerToken
// @in header
// @name Authorization
package main

import (
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/spf13/viper"
)

func main() {
	// Load env
	if err := api.LoadEnv(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}
	logging.BootstrapLogger(viper.GetString("server.logLevel"), viper.GetString("server.logFormat"))

	// Read config
	config := api.ReadConfig()

	// Start the service (inside the lambda)
	service := api.NewServer(config)
	service.Start()
}
