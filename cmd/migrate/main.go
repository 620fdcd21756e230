// Command migrate applies the identity store migrations without starting
// the API. Useful for provisioning a fresh MySQL database.
package main

import (
	"log"

	"kelurahan/complaints-api/internal/config"
	"kelurahan/complaints-api/internal/database"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mysqlDB, err := database.NewMySQL(appConfig)
	if err != nil {
		log.Fatalf("Failed to connect to mysql: %v", err)
	}
	defer mysqlDB.Close()

	if err := mysqlDB.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations applied")
}
