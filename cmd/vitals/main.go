package main

import (
	"github.com/rileyhilliard/vitals/internal/cli"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01 -X main.environment=DEV"
var (
	version     = "dev"
	commit      = "none"
	date        = "unknown"
	environment = "PROD"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.SetBuildEnvironment(environment)
	cli.Execute()
}
