// Package server exposes the session controller over Socket.IO plus the
// HTTP surface for the live preview and static artifacts.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/session"
)

const socketIOPingInterval = 5 * time.Second
const socketIOPingTimeout = 15 * time.Second

type Server struct {
	controller *session.Controller
	io         *socket.Server
}

func New(controller *session.Controller) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&sockettypes.Cors{
		Origin:      "*",
		Credentials: false,
	})
	opts.SetPingInterval(socketIOPingInterval)
	opts.SetPingTimeout(socketIOPingTimeout)
	opts.SetPath("/socket.io")

	s := &Server{
		controller: controller,
		io:         socket.NewServer(nil, opts),
	}

	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		logger.Debug("client connected", "socket", client.Id())
		s.registerHandlers(client)
	})

	return s
}

func (s *Server) registerHandlers(client *socket.Socket) {
	client.On("activate_system", func(data ...any) {
		status := s.controller.Activate()
		client.Emit("system_status", statusPayload{Active: status.Active, Message: status.Message})
	})

	client.On("deactivate_system", func(data ...any) {
		status := s.controller.Deactivate()
		client.Emit("system_status", statusPayload{Active: status.Active, Message: status.Message})
	})

	client.On("capture_image", func(data ...any) {
		result := s.controller.Capture()
		payload := capturePayload{Success: result.Success, Message: result.Message}
		if result.Success {
			payload.ImageURL = "/static/captured.jpg"
		}
		client.Emit("image_captured", payload)
	})

	client.On("upload_image", func(data ...any) {
		var req uploadRequest
		if len(data) == 0 || decodeAny(data[0], &req) != nil {
			client.Emit("error", messagePayload{Message: "Erro ao enviar imagem"})
			return
		}

		raw, err := decodeDataURI(req.Image)
		if err != nil {
			client.Emit("error", messagePayload{Message: "Erro ao enviar imagem"})
			return
		}

		result := s.controller.Upload(raw)
		payload := capturePayload{Success: result.Success, Message: result.Message}
		if result.Success {
			payload.ImageURL = "/static/captured.jpg"
		}
		client.Emit("image_uploaded", payload)
	})

	client.On("submit_audio", func(data ...any) {
		var req audioRequest
		if len(data) == 0 || decodeAny(data[0], &req) != nil {
			client.Emit("error", messagePayload{Message: "Erro ao processar áudio"})
			return
		}

		raw, err := decodeDataURI(req.Audio)
		if err != nil {
			client.Emit("error", messagePayload{Message: "Erro ao processar áudio"})
			return
		}

		go func() {
			text := s.controller.SubmitAudio(context.Background(), raw)
			client.Emit("transcription_complete", transcriptionPayload{Transcription: text})
		}()
	})

	client.On("request_description", func(data ...any) {
		client.Emit("processing", messagePayload{Message: "Processando..."})

		go func() {
			result := s.controller.RequestDescription(context.Background())
			payload := descriptionPayload{Response: result.Answer}
			if result.AudioPath != "" {
				payload.AudioURL = "/" + result.AudioPath
			}
			client.Emit("description_complete", payload)
		}()
	})

	client.On("clear_question", func(data ...any) {
		s.controller.ClearQuestion()
		client.Emit("question_cleared", messagePayload{Message: "Pergunta limpa"})
	})
}

// HandleSocketIO adapts the Socket.IO server into a gin handler.
func (s *Server) HandleSocketIO() gin.HandlerFunc {
	httpHandler := s.io.ServeHandler(nil)

	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			c.Status(http.StatusOK)
			return
		}
		httpHandler.ServeHTTP(c.Writer, c.Request)
	}
}

func (s *Server) Close() error {
	s.io.Close(nil)
	return nil
}

// decodeAny round-trips a loosely typed Socket.IO payload into a struct.
func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// decodeDataURI strips a "data:...;base64," prefix when present and
// decodes the remainder.
func decodeDataURI(value string) ([]byte, error) {
	if idx := strings.IndexByte(value, ','); idx >= 0 && strings.HasPrefix(value, "data:") {
		value = value[idx+1:]
	}
	return base64.StdEncoding.DecodeString(value)
}
