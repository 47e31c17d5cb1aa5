// schola-server serves the publication explorer web UI.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"

	"github.com/davidaknowles/schola"
	"github.com/davidaknowles/schola/fetch"
	"github.com/davidaknowles/schola/metrics"
	"github.com/davidaknowles/schola/web"
)

var (
	addr         = flag.String("addr", ":5000", "listen address")
	defaultEmail = flag.String("email", "example@example.com", "fallback contact email for Entrez")
	maxRetries   = flag.Int("r", 3, "max retries per request")
	timeout      = flag.Duration("T", 60*time.Second, "request timeout")
	verbose      = flag.Bool("verbose", false, "debug logging")
	showVersion  = flag.Bool("version", false, "show version")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(schola.Version)
		os.Exit(0)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = *maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = *timeout
	srv := &web.Server{
		Entrez: fetch.Client{
			Tool:      schola.AppName,
			UserAgent: schola.UserAgent,
			Client:    client,
		},
		ICite: metrics.Client{
			UserAgent: schola.UserAgent,
			Pause:     metrics.DefaultPause,
			Client:    client,
		},
		DefaultEmail: *defaultEmail,
	}
	log.WithField("addr", *addr).Info("schola-server listening")
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
