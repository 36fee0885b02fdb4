package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"maa.plus/backend-next/cmd/app/server"
	"maa.plus/backend-next/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "maabackend",
		Description: "The MAA Copilot backend. Built with Go, fiber, bun and go.uber.org/fx. Serves copilot sharing APIs and mirrors Arknights game data.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
