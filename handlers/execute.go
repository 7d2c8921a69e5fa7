package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/models"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// enginePayload is the execution engine's request format; the engine picks
// the latest installed version for "*"
type enginePayload struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []engineFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type engineFile struct {
	Content string `json:"content"`
}

type engineResult struct {
	Run struct {
		Stdout string  `json:"stdout"`
		Stderr string  `json:"stderr"`
		Code   int     `json:"code"`
		Signal *string `json:"signal"`
		Output string  `json:"output"`
	} `json:"run"`
}

// ExecuteCode forwards source code to the execution engine and reshapes
// its response
func (h *Handler) ExecuteCode(c *gin.Context) {
	var req models.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language and sourceCode are required fields"})
		return
	}

	payload := enginePayload{
		Language: req.Language,
		Version:  "*",
		Files:    []engineFile{{Content: req.SourceCode}},
		Stdin:    req.Stdin,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding engine payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		h.engineURL+"/api/v2/execute", bytes.NewReader(body))
	if err != nil {
		log.Printf("Error building engine request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		log.Printf("Error reaching execution engine: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to connect to execution engine"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var details json.RawMessage
		if data, err := io.ReadAll(resp.Body); err == nil && json.Valid(data) {
			details = data
		}
		c.JSON(resp.StatusCode, gin.H{"error": "Execution engine error", "details": details})
		return
	}

	var result engineResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Error decoding engine response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid execution engine response"})
		return
	}

	c.JSON(http.StatusOK, models.ExecuteResponse{
		Stdout: result.Run.Stdout,
		Stderr: result.Run.Stderr,
		Code:   result.Run.Code,
		Signal: result.Run.Signal,
		Output: result.Run.Output,
	})
}

// ListRuntimes proxies the engine's installed-language list
func (h *Handler) ListRuntimes(c *gin.Context) {
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		h.engineURL+"/api/v2/runtimes", nil)
	if err != nil {
		log.Printf("Error building engine request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		log.Printf("Error reaching execution engine: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Execution engine unavailable"})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading engine response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid execution engine response"})
		return
	}

	c.Data(resp.StatusCode, "application/json", data)
}
