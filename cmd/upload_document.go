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
	"github.com/blockvoltcr7/vector-store-be/service"
	"github.com/blockvoltcr7/vector-store-be/types"
	"github.com/blockvoltcr7/vector-store-be/utils"
)

// uploadDocumentCmd represents the uploadDocument command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Ingest a single document into a namespace",
	Long: `Reads a PDF, Markdown or plain-text file, splits it into overlapping
chunks, embeds each chunk and upserts the vectors into the configured
Pinecone index under the given namespace.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		deps, err := buildIngestDeps(cfgFile)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}

		namespace, _ := cmd.Flags().GetString("namespace")
		if namespace == "" {
			namespace = deps.cfg.Pinecone.DefaultNamespace
		}

		metadata := metadataFromFlags(cmd, filePath)
		if err := uploadOne(deps, filePath, namespace, metadata); err != nil {
			log.Fatalf("Failed to upload document: %v", err)
		}
	},
}

type ingestDeps struct {
	cfg         *config.Config
	fileService *service.FileService
}

func buildIngestDeps(configPath string) (*ingestDeps, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	pineconeStore, err := database.NewPineconeStore(cfg.Pinecone)
	if err != nil {
		return nil, err
	}

	openaiService := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbedModel)
	documentService := service.NewDocumentService(types.DocumentServiceConfig{
		ChunkSize: cfg.Chunking.ChunkSize,
		Overlap:   cfg.Chunking.Overlap,
	})
	fileService := service.NewFileService(cfg.UploadDir, pineconeStore, documentService, openaiService, cfg.EmbedBatchSize)

	return &ingestDeps{
		cfg:         cfg,
		fileService: fileService,
	}, nil
}

func metadataFromFlags(cmd *cobra.Command, filePath string) types.Metadata {
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = service.GetFileNameWithoutExt(filePath)
	}
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	author, _ := cmd.Flags().GetString("author")
	dateCreated, _ := cmd.Flags().GetString("date-created")
	tags, _ := cmd.Flags().GetStringArray("tags")
	keywords, _ := cmd.Flags().GetStringArray("keywords")

	return types.Metadata{
		Title:       title,
		Category:    category,
		Description: description,
		Author:      author,
		DateCreated: dateCreated,
		Tags:        tags,
		Keywords:    keywords,
	}
}

func uploadOne(deps *ingestDeps, filePath, namespace string, metadata types.Metadata) error {
	storedPath, err := utils.CopyFileWithTimestamp(filePath, deps.cfg.UploadDir)
	if err != nil {
		return err
	}

	statusChan := make(chan types.ProcessingDocumentStatus)
	go func() {
		for status := range statusChan {
			fmt.Printf("%s: %d/%d chunks\n", status.Status, status.UpsertedChunks, status.TotalChunks)
		}
	}()

	chunks, err := deps.fileService.IngestFile(context.Background(), storedPath, namespace, metadata, statusChan)
	close(statusChan)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s: %d chunks into namespace %q\n", filePath, chunks, namespace)
	return nil
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringP("file", "f", "", "Path to the file to upload")
	uploadDocumentCmd.Flags().StringP("namespace", "n", "", "Namespace to upload into (default from config)")
	uploadDocumentCmd.Flags().String("title", "", "Document title (defaults to the file name)")
	uploadDocumentCmd.Flags().String("category", "", "Document category")
	uploadDocumentCmd.Flags().String("description", "", "Document description")
	uploadDocumentCmd.Flags().String("author", "", "Document author")
	uploadDocumentCmd.Flags().String("date-created", "", "ISO creation date, e.g. 2024-12-01")
	uploadDocumentCmd.Flags().StringArrayP("tags", "g", []string{}, "Tags for the document")
	uploadDocumentCmd.Flags().StringArrayP("keywords", "k", []string{}, "Keywords for the document")
}
