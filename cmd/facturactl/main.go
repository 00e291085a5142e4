package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/recepcion-activa/cmd/facturactl/commands"
	"github.com/jhoicas/recepcion-activa/pkg/config"
	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

func main() {
	// .env opcional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	// El log va a stderr: stdout queda para la salida JSON de los comandos.
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: os.Stderr})

	commands.Execute(cfg)
}
