package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"stockfinder/internal/app"
	"stockfinder/internal/config"
	"stockfinder/internal/connectors/zoho"
	"stockfinder/internal/logx"
	"stockfinder/internal/stock"
	"stockfinder/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logx.Setup(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.HTTPAddr, "listen address")
		_ = fs.Parse(os.Args[2:])
		a, err := app.New(cfg)
		must(err)
		defer a.Close()
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(a.Server().Run(ctx, *addr))
	case "stock:query":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sel := selectionFlags(fs)
		_ = fs.Parse(os.Args[2:])
		a, err := app.New(cfg)
		must(err)
		defer a.Close()
		resp, err := a.Stock.Query(context.Background(), *sel)
		must(err)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		must(enc.Encode(resp))
	case "stock:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		sel := selectionFlags(fs)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		a, err := app.New(cfg)
		must(err)
		defer a.Close()
		resp, err := a.Stock.Query(context.Background(), *sel)
		must(err)
		must(stock.SaveResultsXLSX(resp.Results, *out))
		fmt.Printf("exported %d rows to %s\n", len(resp.Results), *out)
	case "oauth:url":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		redirect := fs.String("redirect", cfg.ZohoRedirectURI, "redirect uri registered with zoho")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*redirect) == "" {
			must(fmt.Errorf("--redirect or ZOHO_REDIRECT_URI is required"))
		}
		b, err := zoho.NewBootstrapFromConfig(cfg)
		must(err)
		fmt.Println(b.AuthCodeURL(*redirect, uuid.NewString()))
	case "oauth:exchange":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		code := fs.String("code", "", "authorization code from the zoho redirect")
		redirect := fs.String("redirect", cfg.ZohoRedirectURI, "redirect uri used for the code")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*code) == "" || strings.TrimSpace(*redirect) == "" {
			must(fmt.Errorf("--code and --redirect (or ZOHO_REDIRECT_URI) are required"))
		}
		b, err := zoho.NewBootstrapFromConfig(cfg)
		must(err)
		data, err := b.Exchange(context.Background(), *code, *redirect)
		must(err)
		fmt.Printf("refresh_token=%v\n", data["refresh_token"])
		fmt.Println("set it as ZOHO_REFRESH_TOKEN and restart the server")
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(context.Background(), *limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s trace=%s source=%s selection=%s total=%d available=%d filtered=%d missing=%s %dms\n",
				r.CreatedAt, r.TraceID, r.Source, r.SelectionJSON, r.TotalRecords, r.AvailableRecords, r.FilteredRecords, r.MissingJSON, r.DurationMs)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func selectionFlags(fs *flag.FlagSet) *stock.Selection {
	sel := &stock.Selection{}
	fs.StringVar(&sel.Model, "model", "", "model filter")
	fs.StringVar(&sel.Variant, "variant", "", "variant filter")
	fs.StringVar(&sel.Color, "color", "", "color filter")
	fs.StringVar(&sel.Location, "location", "", "location filter")
	return sel
}

func usage() {
	fmt.Println("usage: stockfinder <command>")
	fmt.Println("commands:")
	fmt.Println("  serve [--addr=:8080]")
	fmt.Println("  stock:query [--model=...] [--variant=...] [--color=...] [--location=...]")
	fmt.Println("  stock:export --out=./out/stock.xlsx [filters]")
	fmt.Println("  oauth:url [--redirect=http://localhost:8080/api/zoho/callback]")
	fmt.Println("  oauth:exchange --code=... [--redirect=...]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
