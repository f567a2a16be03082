package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/infinitystore/backend/app/configs"
	"github.com/infinitystore/backend/app/db/seeders"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models/migrations"
	"github.com/infinitystore/backend/app/repositories"
	"github.com/infinitystore/backend/app/services"
	"github.com/urfave/cli/v3"
)

// ServeFunc starts the HTTP server and blocks until it stops.
type ServeFunc func(ctx context.Context, env configs.ENV) error

func RunCli(env configs.ENV, serve ServeFunc) {
	cmd := &cli.Command{
		Name:  "infinitystore",
		Usage: "Infinity Store REST backend",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Insert demo categories, products and customers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "products", Value: 8, Usage: "products per category"},
					&cli.IntFlag{Name: "customers", Value: 5, Usage: "demo customer accounts"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					opts := seeders.Options{
						ProductsPerCategory: int(c.Int("products")),
						Customers:           int(c.Int("customers")),
					}
					if err := seeders.DBSeed(db.WithContext(ctx), opts); err != nil {
						return err
					}
					log.Printf("✅ Seeding complete (customer password: %s)", seeders.DemoPassword)
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an administrator account or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					authSvc := services.NewAuthService(repositories.NewUserRepository(db), nil, nil, helpers.NewValidator())
					user, err := authSvc.CreateAdmin(ctx, services.RegisterInput{
						Name:     c.String("name"),
						Email:    c.String("email"),
						Password: c.String("password"),
					})
					if err != nil {
						return fmt.Errorf("create admin: %w", err)
					}
					log.Printf("✅ Admin ready: %s (id %d)", user.Email, user.ID)
					return nil
				},
			},
			{
				Name:  "generate-secret",
				Usage: "Generate a random JWT_SECRET for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					secret, err := configs.GenerateJWTSecret()
					if err != nil {
						return err
					}
					fmt.Printf("JWT_SECRET=%s\n", secret)
					log.Println("✅ Secret generated. Please copy it to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
