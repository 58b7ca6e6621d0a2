// Command animetrack — консольный клиент anime tracker.
//
// Версия и дата сборки задаются при сборке:
//
//	go build -ldflags "-X main.buildVersion=1.0.0 -X main.buildDate=$(date +%F)" ./cmd/animetrack
package main

import "github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/cli"

var (
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
