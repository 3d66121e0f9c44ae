/*
Copyright © 2025 blockvoltcr7
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/blockvoltcr7/vector-store-be/config"
	"github.com/blockvoltcr7/vector-store-be/database"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Administer Pinecone indexes and namespaces",
}

var listIndexesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexes in the project",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustAdminStore()
		infos, err := store.ListIndexes(context.Background())
		if err != nil {
			log.Fatalf("Failed to list indexes: %v", err)
		}
		if len(infos) == 0 {
			fmt.Println("No indexes found")
			return
		}
		for _, info := range infos {
			fmt.Printf("%s\tdimension=%d\tmetric=%s\thost=%s\n", info.Name, info.Dimension, info.Metric, info.Host)
		}
	},
}

var createIndexCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a serverless index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dimension, _ := cmd.Flags().GetInt32("dimension")
		store := mustAdminStore()
		if err := store.CreateIndex(context.Background(), args[0], dimension); err != nil {
			log.Fatalf("Failed to create index: %v", err)
		}
		fmt.Printf("Created index %q with dimension %d\n", args[0], dimension)
	},
}

var deleteIndexCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete an index and all its namespaces",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustAdminStore()
		if err := store.DeleteIndex(context.Background(), args[0]); err != nil {
			log.Fatalf("Failed to delete index: %v", err)
		}
		fmt.Printf("Deleted index %q\n", args[0])
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stats for the configured index",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustIndexStore()
		stats, err := store.Stats(context.Background())
		if err != nil {
			log.Fatalf("Failed to fetch index stats: %v", err)
		}
		fmt.Printf("Dimension: %d\n", stats.Dimension)
		fmt.Printf("Fullness:  %.4f\n", stats.IndexFullness)
		fmt.Printf("Vectors:   %d\n", stats.TotalVectorCount)
		for name, ns := range stats.Namespaces {
			fmt.Printf("  namespace %q: %d vectors\n", name, ns.VectorCount)
		}
	},
}

var deleteNamespaceCmd = &cobra.Command{
	Use:   "delete-namespace [namespace]",
	Short: "Delete every vector in a namespace of the configured index",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustIndexStore()
		if err := store.DeleteNamespace(context.Background(), args[0]); err != nil {
			log.Fatalf("Failed to delete namespace: %v", err)
		}
		fmt.Printf("Deleted all vectors in namespace %q\n", args[0])
	},
}

// mustAdminStore builds a control-plane client; it does not require the
// configured index to exist yet.
func mustAdminStore() *database.PineconeStore {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	store, err := database.NewPineconeAdmin(cfg.Pinecone.APIKey)
	if err != nil {
		log.Fatalf("Failed to connect to Pinecone: %v", err)
	}
	return store
}

func mustIndexStore() *database.PineconeStore {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	store, err := database.NewPineconeStore(cfg.Pinecone)
	if err != nil {
		log.Fatalf("Failed to connect to Pinecone: %v", err)
	}
	return store
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(listIndexesCmd)
	indexCmd.AddCommand(createIndexCmd)
	indexCmd.AddCommand(deleteIndexCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(deleteNamespaceCmd)

	createIndexCmd.Flags().Int32("dimension", 1536, "Vector dimension for the new index")
}
