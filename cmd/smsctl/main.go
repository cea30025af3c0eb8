package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/chuanglan-sms/internal/config"
)

const usage = `usage: smsctl <command> [options]

commands:
  send   -to 138...,139... -msg "text" [-send-type plain|long] [-send-time YYYYMMDDHHMMSS] [-expires-at YYYYMMDDHHMMSS] [-json]
  quota  [-json]

Gateway credentials are read from SMS_* environment variables or .env.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := config.New()
	cmd := &Command{
		Client: cfg.NewGatewayClient(),
		Out:    os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
