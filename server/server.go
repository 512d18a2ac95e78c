// Package server exposes the query-resolution workflow over a REST API.
// Queries run asynchronously: each request returns a task ID immediately and
// the client polls for the result.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"legalassist/assistant"
	"legalassist/message"
	"legalassist/pkg/logging"
)

// Server dispatches workflow runs and serves task polling.
type Server struct {
	assistant *assistant.Assistant
	store     TaskStore
	logger    *slog.Logger
}

// New creates a server around an assistant and a task store.
func New(a *assistant.Assistant, store TaskStore) *Server {
	return &Server{
		assistant: a,
		store:     store,
		logger:    logging.WithComponent("server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)

	query := r.Group("/query")
	{
		query.POST("/text", s.handleTextQuery)
		query.POST("/image", s.handleFileQuery(assistant.KindImage))
		query.POST("/pdf", s.handleFileQuery(assistant.KindPDF))
		query.GET("/status/:id", s.handleStatus)
	}

	return r
}

// historyTurn is the wire form of one prior conversation turn.
type historyTurn struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// textQueryRequest represents the request body for a text query
type textQueryRequest struct {
	Query   string        `json:"query" binding:"required"`
	History []historyTurn `json:"conversation_history"`
}

func (s *Server) handleTextQuery(c *gin.Context) {
	var req textQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.dispatch(c, assistant.Query{
		Input:   []byte(req.Query),
		Kind:    assistant.KindText,
		History: toMessages(req.History),
	})
}

// handleFileQuery accepts a multipart upload with an optional sub-question
// and optional JSON-encoded conversation history.
func (s *Server) handleFileQuery(kind assistant.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}

		var turns []historyTurn
		if raw := c.PostForm("conversation_history"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &turns); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_history"})
				return
			}
		}

		s.dispatch(c, assistant.Query{
			Input:     payload,
			Kind:      kind,
			TextQuery: c.PostForm("query"),
			History:   toMessages(turns),
		})
	}
}

// dispatch registers a task and runs the workflow in its own goroutine. Runs
// share only stateless collaborators, so no cross-run coordination is needed.
func (s *Server) dispatch(c *gin.Context, q assistant.Query) {
	task := &Task{
		ID:        uuid.NewString(),
		Status:    TaskProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(c.Request.Context(), task); err != nil {
		s.logger.Error("failed to register task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register task"})
		return
	}

	go s.run(task.ID, task.CreatedAt, q)

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": task.ID,
		"status":  task.Status,
	})
}

func (s *Server) run(taskID string, createdAt time.Time, q assistant.Query) {
	ctx := context.Background()

	result, err := s.assistant.ProcessQuery(ctx, q)

	task := &Task{ID: taskID, CreatedAt: createdAt}
	if err != nil {
		task.Status = TaskError
		task.Error = err.Error()
		s.logger.Error("workflow run failed", "task_id", taskID, "error", err)
	} else {
		task.Status = TaskCompleted
		task.Result = result
	}

	if err := s.store.Put(ctx, task); err != nil {
		s.logger.Error("failed to store task result", "task_id", taskID, "error", err)
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	task, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		s.logger.Error("failed to load task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task"})
		return
	}

	resp := gin.H{
		"task_id": task.ID,
		"status":  task.Status,
	}
	switch task.Status {
	case TaskCompleted:
		resp["response"] = task.Result
	case TaskError:
		resp["error"] = task.Error
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toMessages(turns []historyTurn) []*message.Message {
	if len(turns) == 0 {
		return nil
	}
	msgs := make([]*message.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, message.NewMessage(message.Role(t.Role), t.Content))
	}
	return msgs
}
