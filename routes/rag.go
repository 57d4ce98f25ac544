package routes

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pdf-chat-backend/internal/logger"
	"pdf-chat-backend/middleware"
	"pdf-chat-backend/models"
	"pdf-chat-backend/services"
	"pdf-chat-backend/utils"
)

// RAGHandler wires the ingest and answer pipelines behind the HTTP surface.
// It is the only layer that turns errors into status codes; everything below
// it returns tagged errors.
type RAGHandler struct {
	extractor *services.PDFExtractor
	chunker   *services.Chunker
	indexer   *services.Indexer
	answerer  *services.Answerer
}

func NewRAGHandler(store *services.VectorStore, embedder services.Embedder, generator services.Generator) *RAGHandler {
	return &RAGHandler{
		extractor: services.NewPDFExtractor(),
		chunker:   services.NewChunker(0, 0),
		indexer:   services.NewIndexer(store, embedder),
		answerer:  services.NewAnswerer(store, embedder, generator),
	}
}

// SetupRAGRoutes registers the public endpoints.
func SetupRAGRoutes(router *gin.Engine, store *services.VectorStore, embedder services.Embedder, generator services.Generator) {
	handler := NewRAGHandler(store, embedder, generator)

	router.GET("/", handler.Welcome)
	router.POST("/upload", handler.Upload)
	router.POST("/ask", handler.Ask)
}

func (h *RAGHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, models.WelcomeResponse{Message: "Welcome to the Chat with PDFs Backend!"})
}

// Upload ingests one or more PDFs: read fully into memory, extract, chunk,
// embed, replace the index. Everything runs synchronously in the request.
func (h *RAGHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithBadRequest(c, "No files were uploaded.", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		utils.RespondWithBadRequest(c, "No files were uploaded.", nil)
		return
	}

	buffers := make([][]byte, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "An error occurred during processing: "+err.Error(), nil)
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			utils.RespondWithInternalError(c, "An error occurred during processing: "+err.Error(), nil)
			return
		}
		buffers = append(buffers, content)
	}

	logger.Info("processing upload", "request_id", middleware.GetRequestID(c), "files", len(buffers))

	text := h.extractor.ExtractText(buffers)
	if strings.TrimSpace(text) == "" {
		utils.RespondWithBadRequest(c, "Could not extract any text from the provided PDFs.", nil)
		return
	}

	chunks, err := h.chunker.Split(text)
	if err != nil {
		utils.RespondWithInternalError(c, "An error occurred during processing: "+err.Error(), nil)
		return
	}

	if err := h.indexer.Index(c.Request.Context(), chunks); err != nil {
		logger.Error("upload pipeline failed", "request_id", middleware.GetRequestID(c), "error", err)
		utils.RespondWithAppError(c, err, "An error occurred during processing: ")
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Status:  "success",
		Message: "Documents processed successfully. You can now ask a question.",
	})
}

// Ask answers a question from the indexed documents.
func (h *RAGHandler) Ask(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		utils.RespondWithBadRequest(c, "No question was provided.", nil)
		return
	}

	answer, err := h.answerer.Answer(c.Request.Context(), req.Question)
	if err != nil {
		logger.Error("ask pipeline failed", "request_id", middleware.GetRequestID(c), "error", err)
		utils.RespondWithAppError(c, err, "An internal error occurred: ")
		return
	}

	c.JSON(http.StatusOK, models.AskResponse{Answer: answer})
}
