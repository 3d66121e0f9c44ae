/*
Copyright © 2025 blockvoltcr7
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/blockvoltcr7/vector-store-be/config"
	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/handler"
	"github.com/blockvoltcr7/vector-store-be/service"
	"github.com/blockvoltcr7/vector-store-be/types"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document backend server",
	Long:  `Starts the HTTP server that handles uploads, searches, retrieval chat and index administration`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		pineconeStore, err := database.NewPineconeStore(cfg.Pinecone)
		if err != nil {
			log.Fatalf("Failed to connect to Pinecone: %v", err)
		}

		openaiService := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbedModel)

		var aiService service.AIService = openaiService
		if cfg.ChatProvider == "gemini" {
			geminiService, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.ChatModel)
			if err != nil {
				log.Fatalf("Failed to create Gemini service: %v", err)
			}
			aiService = geminiService
		}

		documentService := service.NewDocumentService(types.DocumentServiceConfig{
			ChunkSize: cfg.Chunking.ChunkSize,
			Overlap:   cfg.Chunking.Overlap,
		})
		fileService := service.NewFileService(cfg.UploadDir, pineconeStore, documentService, openaiService, cfg.EmbedBatchSize)
		searchService := service.NewSearchService(pineconeStore, openaiService, aiService, cfg.Pinecone.DefaultNamespace)
		wsService := service.NewWebSocketService(searchService)

		// Initialize handlers
		uploadHandler := handler.NewUploadHandler(fileService)
		searchHandler := handler.NewSearchHandler(searchService)
		indexHandler := handler.NewIndexHandler(pineconeStore)
		chatHandler := handler.NewChatHandler(wsService)
		documentHandler := handler.NewDocumentHandler(cfg.UploadDir)

		// Setup Gin router
		router := gin.Default()
		router.Use(handler.CORSMiddleware())

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/documents/upload", uploadHandler.HandleUpload)
			apiV1.GET("/documents", documentHandler.ServeDocument)
			apiV1.POST("/documents/search", searchHandler.HandleSearch)
			apiV1.POST("/documents/ask", searchHandler.HandleAsk)
			apiV1.GET("/chat", chatHandler.HandleChat)

			apiV1.GET("/indexes", indexHandler.HandleListIndexes)
			apiV1.POST("/indexes", indexHandler.HandleCreateIndex)
			apiV1.DELETE("/indexes/:name", indexHandler.HandleDeleteIndex)
			apiV1.GET("/indexes/stats", indexHandler.HandleIndexStats)
			apiV1.DELETE("/namespaces/:namespace", indexHandler.HandleDeleteNamespace)
			apiV1.GET("/namespaces/:namespace/vectors", indexHandler.HandleFetchVectors)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
