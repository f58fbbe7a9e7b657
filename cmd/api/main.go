package main

import (
	"context"
	"log"

	"user-service/cmd/api/app"
	"user-service/cmd/api/server"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, cancel := server.WithSignal(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
