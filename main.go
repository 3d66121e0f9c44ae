/*
Copyright © 2025 blockvoltcr7
*/
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/blockvoltcr7/vector-store-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
}
