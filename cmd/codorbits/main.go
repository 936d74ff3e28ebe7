// Command codorbits runs the CodOrbits course site and its maintenance tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/codorbits"
	"github.com/eringen/codorbits/views"
	"github.com/eringen/codorbits/wordpress"
)

// version is set at build time via ldflags.
var version = "dev"

var logger = log.New("codorbits")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "sitemap":
		err = runSitemap()
	case "submissions":
		err = runSubmissions(os.Args[2:])
	case "version":
		fmt.Printf("codorbits %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tmpl, err := views.Parse()
	if err != nil {
		return err
	}

	app := codorbits.New(cfg, tmpl.ViewFuncs())
	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		app.Close()
		return err
	case sig := <-stop:
		logger.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(ctx)
}

func runSitemap() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.CMSURL == "" {
		return fmt.Errorf("CMS_URL is required")
	}
	client := wordpress.NewClient(cfg.CMSURL,
		wordpress.WithTimeout(cfg.CMSTimeout),
		wordpress.WithLogger(logger),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	for _, u := range codorbits.SitemapURLs(cfg.URL, client.GetAllPosts(ctx)) {
		fmt.Println(u.Loc)
	}
	return nil
}

func runSubmissions(args []string) error {
	fs := flag.NewFlagSet("submissions", flag.ExitOnError)
	kind := fs.String("kind", "", "filter by kind: contact or subscribe")
	limit := fs.Int("limit", 20, "maximum rows to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/codorbits.db"
	}
	store, err := codorbits.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	subs, err := store.ListSubmissions(*kind, *limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tEMAIL\tOK\tSUBJECT / DETAIL")
	for _, s := range subs {
		note := s.Subject
		if s.Detail != "" {
			note = s.Detail
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Kind, s.Email, s.Success, note)
	}
	return w.Flush()
}

func printUsage() {
	fmt.Println(`codorbits - the CodOrbits Java course site

Usage:
  codorbits <command> [arguments]

Commands:
  serve                               Start the web server
  sitemap                             Print every sitemap URL
  submissions [-kind K] [-limit N]    List recent contact and subscription attempts
  version                             Print the codorbits version
  help                                Show this help message

Configuration is read from .env, config.yaml and the environment
(CMS_URL, SESSION_SECRET, SITE_URL, ...).`)
}
