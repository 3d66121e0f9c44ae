/*
Copyright © 2025 blockvoltcr7
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockvoltcr7/vector-store-be/service"
	"github.com/blockvoltcr7/vector-store-be/types"
)

// batchUploadDocumentCmd represents the batchUploadDocument command
var batchUploadDocumentCmd = &cobra.Command{
	Use:   "batch-upload-document",
	Short: "Ingest every supported document in a directory",
	Long: `Walks a directory and ingests every PDF, Markdown and plain-text file
found in it into the configured Pinecone index. Shared metadata (category,
author, tags, keywords) applies to every document; the title defaults to
each file's name.`,
	Run: func(cmd *cobra.Command, args []string) {
		dirPath, _ := cmd.Flags().GetString("dir")
		if dirPath == "" {
			log.Fatal("--dir is required")
		}

		deps, err := buildIngestDeps(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}

		namespace, _ := cmd.Flags().GetString("namespace")
		if namespace == "" {
			namespace = deps.cfg.Pinecone.DefaultNamespace
		}

		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		author, _ := cmd.Flags().GetString("author")
		dateCreated, _ := cmd.Flags().GetString("date-created")
		tags, _ := cmd.Flags().GetStringArray("tags")
		keywords, _ := cmd.Flags().GetStringArray("keywords")

		entries, err := os.ReadDir(dirPath)
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}

		uploaded, failed := 0, 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext != ".pdf" && ext != ".md" && ext != ".txt" {
				continue
			}

			filePath := filepath.Join(dirPath, entry.Name())
			metadata := types.Metadata{
				Title:       service.GetFileNameWithoutExt(filePath),
				Category:    category,
				Description: description,
				Author:      author,
				DateCreated: dateCreated,
				Tags:        tags,
				Keywords:    keywords,
			}

			if err := uploadOne(deps, filePath, namespace, metadata); err != nil {
				log.Printf("Failed to upload %s: %v", filePath, err)
				failed++
				continue
			}
			uploaded++
		}

		fmt.Printf("Done: %d uploaded, %d failed\n", uploaded, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchUploadDocumentCmd)

	batchUploadDocumentCmd.Flags().StringP("dir", "d", "", "Directory containing the files to upload")
	batchUploadDocumentCmd.Flags().StringP("namespace", "n", "", "Namespace to upload into (default from config)")
	batchUploadDocumentCmd.Flags().String("category", "", "Category applied to every document")
	batchUploadDocumentCmd.Flags().String("description", "", "Description applied to every document")
	batchUploadDocumentCmd.Flags().String("author", "", "Author applied to every document")
	batchUploadDocumentCmd.Flags().String("date-created", "", "ISO creation date applied to every document")
	batchUploadDocumentCmd.Flags().StringArrayP("tags", "g", []string{}, "Tags applied to every document")
	batchUploadDocumentCmd.Flags().StringArrayP("keywords", "k", []string{}, "Keywords applied to every document")
}
