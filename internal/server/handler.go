package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bububa/medagent/agents"
	"github.com/bububa/medagent/components/imaging"
	"github.com/bububa/medagent/pipeline"
	"github.com/bububa/medagent/tools"
)

var errTooLarge = errors.New("image is too large")

type Handler struct {
	runner        Runner
	models        ModelSelector
	maxUploadSize int64
	gatherer      prometheus.Gatherer
	log           *zap.Logger
}

type page struct {
	Disclaimer   string
	Models       []string
	Selected     string
	Error        string
	Result       template.HTML
	InvocationID string
	Tokens       int
}

// AnalyzeResponse is the json body of POST /api/analyze
type AnalyzeResponse struct {
	Document     string `json:"document"`
	Model        string `json:"model"`
	InvocationID string `json:"invocation_id"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

func (h *Handler) newPage(selected string) *page {
	if selected == "" {
		selected = h.models.DefaultModel()
	}
	return &page{
		Disclaimer: Disclaimer,
		Models:     h.models.Models(),
		Selected:   selected,
	}
}

// Index renders the upload page with the idle prompt
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.newPage(""))
}

// AnalyzePage runs the pipeline on the uploaded image and renders the document
func (h *Handler) AnalyzePage(c *gin.Context) {
	p := h.newPage(c.PostForm("model"))
	result, err := h.analyze(c)
	if err != nil {
		p.Error = userMessage(err)
		c.HTML(statusCode(err), "index.html", p)
		return
	}
	p.Selected = string(result.Model)
	p.Result = template.HTML(pipeline.RenderHTML(result.Document))
	p.InvocationID = result.InvocationID
	if result.Usage != nil {
		p.Tokens = result.Usage.Total()
	}
	c.HTML(http.StatusOK, "index.html", p)
}

// Analyze is the json variant of AnalyzePage
func (h *Handler) Analyze(c *gin.Context) {
	result, err := h.analyze(c)
	if err != nil {
		c.JSON(statusCode(err), gin.H{"error": userMessage(err)})
		return
	}
	resp := AnalyzeResponse{
		Document:     result.Document,
		Model:        string(result.Model),
		InvocationID: result.InvocationID,
	}
	if result.Usage != nil {
		resp.InputTokens = result.Usage.InputTokens
		resp.OutputTokens = result.Usage.OutputTokens
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  h.models.Models(),
		"default": h.models.DefaultModel(),
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) analyze(c *gin.Context) (*pipeline.Result, error) {
	model, err := h.models.SelectModel(c.PostForm("model"))
	if err != nil {
		return nil, err
	}
	raw, err := h.readImage(c)
	if err != nil {
		return nil, err
	}
	result, err := h.runner.Run(c.Request.Context(), raw, model)
	if err != nil {
		h.log.Error("analysis failed", zap.String("file", raw.Name), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (h *Handler) readImage(c *gin.Context) (*imaging.RawImage, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: no image file provided", errBadRequest)
	}
	if file.Size > h.maxUploadSize {
		return nil, errTooLarge
	}
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.maxUploadSize {
		return nil, errTooLarge
	}
	return &imaging.RawImage{Name: file.Filename, Data: data}, nil
}

var errBadRequest = errors.New("bad request")

func statusCode(err error) int {
	var remoteErr *agents.RemoteServiceError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, pipeline.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imaging.ErrDecode), errors.Is(err, imaging.ErrInvalidDimension):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tools.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &remoteErr), errors.Is(err, agents.ErrEmptyResponse), errors.Is(err, pipeline.ErrEmptyAnalysis):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func userMessage(err error) string {
	switch statusCode(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusRequestEntityTooLarge:
		return "The image is too large."
	case http.StatusUnprocessableEntity:
		if errors.Is(err, imaging.ErrInvalidDimension) {
			return "The image dimensions are not supported."
		}
		return "The file is not a supported image (JPG, PNG)."
	case http.StatusServiceUnavailable:
		return "Web search is not configured."
	case http.StatusGatewayTimeout:
		return "The analysis took too long."
	case http.StatusBadGateway:
		return "The model service failed to answer, please try again."
	}
	return "Internal error."
}
