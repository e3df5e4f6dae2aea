// Command campaignkit runs the campaign website server. All configuration
// comes from environment variables; a .env file in the working directory is
// loaded first when present.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	campaignkit "github.com/campaignkit/campaignkit"
)

func main() {
	_ = godotenv.Load()

	cfg := campaignkit.SiteConfig{
		Name:                 campaignkit.EnvOr("SITE_NAME", "Campaign"),
		URL:                  campaignkit.EnvOr("SITE_URL", "http://localhost:3000"),
		Addr:                 campaignkit.EnvOr("ADDR", ":3000"),
		DatabasePath:         campaignkit.EnvOr("DATABASE_PATH", "data/site.db"),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		ContentAdminToken:    os.Getenv("CONTENT_ADMIN_TOKEN"),
		SMTPPasswordOverride: os.Getenv("SMTP_PASSWORD"),
	}

	app := campaignkit.New(cfg,
		campaignkit.WithStaticDir(campaignkit.EnvOr("STATIC_DIR", "public")),
	)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		app.Close()
		os.Exit(0)
	}()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
