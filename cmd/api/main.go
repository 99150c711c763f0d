package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/SmriteePoudel/ProductivityApp-sub000/cmd/api/commands"
)

// @title Productivity Suite API
// @version 1.0
// @description Tasks, categories, projects and pages with role-based permissions.

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "productivity",
		Short: "Productivity Suite API Server",
		Long: `Productivity Suite serves tasks, categories, projects and pages for
authenticated users. It runs against MongoDB or PostgreSQL and keeps working
from memory when the store is unreachable.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
