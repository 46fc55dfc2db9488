package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/zai/internal/auth"
	"github.com/baalimago/zai/internal/models"
	"github.com/baalimago/zai/internal/stream"
	"github.com/baalimago/zai/internal/upstream"
	"github.com/gin-gonic/gin"
)

func (s *Server) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || key == "" || (s.conf.APIKey != "" && key != s.conf.APIKey) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("Missing or invalid Authorization header"))
			return
		}
		c.Next()
	}
}

func (s *Server) handleModels(c *gin.Context) {
	list := ModelList{Object: "list", Data: []Model{}}
	if entries, ok := s.catalog.list(c.Request.Context()); ok {
		for _, m := range entries {
			list.Data = append(list.Data, Model{
				ID:      m.ID,
				Object:  "model",
				Name:    m.Name,
				Created: m.Created,
				OwnedBy: upstream.OwnedBy,
			})
		}
		c.JSON(http.StatusOK, list)
		return
	}
	created := s.now().Unix()
	for _, name := range upstream.ModelNames() {
		list.Data = append(list.Data, Model{
			ID:      name,
			Object:  "model",
			Name:    name,
			Created: created,
			OwnedBy: upstream.OwnedBy,
		})
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleChatCompletions(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid JSON"))
		return
	}
	s.complete(c, req)
}

// handleCompletions maps the legacy prompt onto a single user message.
func (s *Server) handleCompletions(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid JSON"))
		return
	}
	if len(req.Messages) == 0 && req.Prompt != nil {
		req.Messages = []models.Message{{Role: "user", Content: promptText(req.Prompt)}}
	}
	s.complete(c, req)
}

func promptText(p any) string {
	switch p := p.(type) {
	case string:
		return p
	case []any:
		var sb strings.Builder
		for _, it := range p {
			fmt.Fprintf(&sb, "%v\n", it)
		}
		return sb.String()
	default:
		return fmt.Sprintf("%v", p)
	}
}

func (s *Server) complete(c *gin.Context, req ChatCompletionRequest) {
	model := req.Model
	if model == "" {
		model = s.conf.DefaultModel
	}
	streaming := s.conf.DefaultStream
	if req.Stream != nil {
		streaming = *req.Stream
	}
	thinking := req.EnableThinking
	if thinking == nil {
		thinking = s.conf.EnableThinking
	}
	upReq := models.ChatRequest{
		Messages:       req.Messages,
		Model:          model,
		Stream:         true,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		Tools:          req.Tools,
		EnableThinking: thinking,
	}
	// Ids listed by /models are provider ids, sent as is.
	if !upstream.KnownModel(model) {
		if m, ok := s.catalog.lookup(c.Request.Context(), model); ok {
			upReq.Model = m.Name
			upReq.ProviderModel = m.ID
		}
	}
	lines, err := s.upstream.Stream(c.Request.Context(), upReq)
	if err != nil {
		s.upstreamFailure(c, err)
		return
	}
	defer lines.Close()
	if streaming {
		s.writeStream(c, lines, model)
		return
	}
	s.writeCompletion(c, lines, model)
}

// upstreamFailure answers 502. Failing to get a token or to reach the
// upstream is reported differently from the upstream refusing the call.
func (s *Server) upstreamFailure(c *gin.Context, err error) {
	ancli.PrintWarn(fmt.Sprintf("upstream call failed: %v\n", err))
	var authErr *auth.AuthError
	var tErr *stream.TransportError
	switch {
	case errors.As(err, &authErr):
		s.metrics.upstreamFailures.WithLabelValues("auth").Inc()
		c.JSON(http.StatusBadGateway, errorResponse("Failed to call upstream"))
	case errors.As(err, &tErr) && tErr.StatusCode != 0:
		s.metrics.upstreamFailures.WithLabelValues("status").Inc()
		c.JSON(http.StatusBadGateway, errorResponse("Upstream error"))
	default:
		s.metrics.upstreamFailures.WithLabelValues("network").Inc()
		c.JSON(http.StatusBadGateway, errorResponse("Failed to call upstream"))
	}
}

// text returns what an event contributes to the answer, thinking text being
// cleaned first.
func (s *Server) text(ev stream.Event) string {
	if ev.Phase == stream.PhaseThinking {
		return CleanThinking(ev.Delta, s.conf.ThinkTags)
	}
	return ev.Delta
}

// next returns the next payload event, or false once the stream is over. An
// upstream error frame or a done flag ends the stream after the event has
// been returned.
func (s *Server) next(lines *stream.Lines) (stream.Event, bool) {
	for lines.Next() {
		if s.conf.Debug {
			ancli.PrintOK(fmt.Sprintf("upstream line: %v", lines.Text()))
		}
		ev := stream.ParseEvent(lines.Text())
		if ev.Kind != stream.Payload {
			continue
		}
		if ev.Error != nil {
			s.metrics.upstreamErrorFrames.Inc()
			ancli.PrintWarn(fmt.Sprintf("%v\n", ev.Error))
		}
		return ev, true
	}
	if err := lines.Err(); err != nil {
		ancli.PrintWarn(fmt.Sprintf("upstream stream broke off: %v\n", err))
	}
	return stream.Event{}, false
}

func (s *Server) chunk(model string, delta *Delta, finish *string) ChatCompletion {
	now := s.now()
	return ChatCompletion{
		ID:      fmt.Sprintf("chatcmpl-%d", now.Unix()),
		Object:  "chat.completion.chunk",
		Created: now.Unix(),
		Model:   model,
		Choices: []Choice{{Index: 0, Delta: delta, FinishReason: finish}},
	}
}

func writeSSE(c *gin.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to marshal chunk: %v\n", err))
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}

func (s *Server) writeStream(c *gin.Context, lines *stream.Lines, model string) {
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	writeSSE(c, s.chunk(model, &Delta{Role: "assistant"}, nil))
	for {
		ev, ok := s.next(lines)
		if !ok || ev.Error != nil {
			break
		}
		if out := s.text(ev); out != "" {
			writeSSE(c, s.chunk(model, &Delta{Content: out}, nil))
		}
		if ev.Finished {
			break
		}
	}
	stop := "stop"
	writeSSE(c, s.chunk(model, &Delta{}, &stop))
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

func (s *Server) writeCompletion(c *gin.Context, lines *stream.Lines, model string) {
	var content strings.Builder
	for {
		ev, ok := s.next(lines)
		if !ok || ev.Error != nil {
			break
		}
		content.WriteString(s.text(ev))
		if ev.Finished {
			break
		}
	}
	now := s.now()
	stop := "stop"
	c.JSON(http.StatusOK, ChatCompletion{
		ID:      fmt.Sprintf("chatcmpl-%d", now.Unix()),
		Object:  "chat.completion",
		Created: now.Unix(),
		Model:   model,
		Choices: []Choice{{
			Index:        0,
			Message:      &models.Message{Role: "assistant", Content: content.String()},
			FinishReason: &stop,
		}},
		Usage: &Usage{},
	})
}
