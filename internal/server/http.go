package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const frameInterval = 66 * time.Millisecond

// Router builds the HTTP surface: Socket.IO endpoint, live MJPEG preview
// and static artifacts.
func (s *Server) Router(allowedOrigins []string, staticDir string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	router.Any("/socket.io", s.HandleSocketIO())
	router.Any("/socket.io/*any", s.HandleSocketIO())

	router.GET("/video_feed", s.handleVideoFeed)
	router.Static("/static", staticDir)

	return router
}

// handleVideoFeed streams the live preview as multipart MJPEG until the
// client goes away.
func (s *Server) handleVideoFeed(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	c.Writer.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			frame := s.controller.LiveFrame()
			if frame == nil {
				continue
			}

			if _, err := fmt.Fprintf(c.Writer, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
				return
			}
			if _, err := c.Writer.Write(frame); err != nil {
				return
			}
			if _, err := c.Writer.Write([]byte("\r\n")); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
