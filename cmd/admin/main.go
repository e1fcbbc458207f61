package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/usersvc/internal/cli"
	"github.com/dmitrijs2005/usersvc/internal/server/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	preset, err := cli.ParseAdminFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	in, err := cli.PromptAdmin(bufio.NewReader(os.Stdin), os.Stdout, preset)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := cli.RunAdmin(ctx, cfg, in, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}

}
