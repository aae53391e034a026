package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playmaker/internal/api"
	"playmaker/internal/app"
	"playmaker/internal/config"
)

var (
	version            = "dev"
	configPathOverride = ""
)

const usage = `usage: playmaker [-config file] <command> [flags]

commands:
  serve      run the tactics backend (REST, exports, live feed)
  mcp        run the board editor as an MCP server on stdio
  export     render a saved tactic: export -id <tactic> -o board.svg|png|pdf
  discover   list backends advertised on the local network
  version    print the version
`

func main() {
	fs := flag.NewFlagSet("playmaker", flag.ExitOnError)
	configPath := fs.String("config", configPathOverride, "config file (default ~/.config/playmaker/config.rc)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}
	cmd, args := fs.Arg(0), fs.Args()[1:]

	if err := run(cmd, args, *configPath); err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func run(cmd string, args []string, configPath string) error {
	switch cmd {
	case "version":
		fmt.Println("playmaker", version)
		return nil
	case "discover":
		return discover(args)
	case "serve", "mcp", "export":
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	cfg, err := config.NewLoader(version, configPath).Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "serve":
		fs := flag.NewFlagSet("playmaker serve", flag.ExitOnError)
		fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
		fs.BoolVar(&cfg.Server.Advertise, "advertise", cfg.Server.Advertise, "announce the backend over mDNS")
		_ = fs.Parse(args)
		return a.Serve(ctx)
	case "mcp":
		return a.ServeMCP(ctx)
	default:
		fs := flag.NewFlagSet("playmaker export", flag.ExitOnError)
		id := fs.String("id", "", "tactic id")
		out := fs.String("o", "", "output file; the extension picks svg, png or pdf")
		_ = fs.Parse(args)
		if *id == "" || *out == "" {
			return errors.New("-id and -o are required")
		}
		return a.Export(ctx, *id, *out)
	}
}

func discover(args []string) error {
	fs := flag.NewFlagSet("playmaker discover", flag.ExitOnError)
	timeout := fs.Duration("timeout", 2*time.Second, "how long to listen for answers")
	_ = fs.Parse(args)

	found, err := api.Discover(*timeout)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("no backends found")
		return nil
	}
	for _, addr := range found {
		fmt.Println(addr)
	}
	return nil
}
