package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"chirp/crud"
	"chirp/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config.json file is provided before the application starts.")
	flag.Parse()

	// Load a .env file if one exists, then the configuration. In production
	// the config.json file is required and the app will panic without it.
	_ = godotenv.Load()
	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Connect to redis if an address is configured. The rate limiter fails
	// open, so an unreachable redis degrades to no throttling instead of
	// taking the app down.
	var rdb *redis.Client
	if config.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, rate limiting disabled until it recovers", "err", err)
		}
		cancel()
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper, config.HMACKey),
		crud.WithOAuth(),
		crud.WithTweet(),
		crud.WithFollow(),
		crud.WithLike(),
	)
	must(err)

	// Create an oauth config object for doing oauth with Github.
	githubOAuth := &oauth2.Config{
		ClientID:     config.Github.ID,
		ClientSecret: config.Github.Secret,
		RedirectURL:  config.Github.RedirectURL,
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}

	// Set up a webserver.
	server := http.NewServer(
		config.IsProd(),
		config.ClientURL,
		config.CSRFKey,
		githubOAuth,
		rdb,
		services.User,
		services.Tweet,
		services.Follow,
		services.Like,
		services.OAuth,
	)

	// Serve the app.
	slog.Info("starting server", "port", config.Port, "env", config.Env)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
