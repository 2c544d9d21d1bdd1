// Package frames bridges the continuous capture loop and the discrete
// capture action: one lossy live slot, one captured slot persisted to a
// processing copy and a display copy.
package frames

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
)

// ErrNoLiveFrame is returned by Capture before the first frame arrived.
var ErrNoLiveFrame = errors.New("frames: no live frame yet")

// mirrorTimeout bounds the fail-soft mirror upload so a hung endpoint
// cannot stall the capture path.
const mirrorTimeout = 5 * time.Second

// Mirror receives a copy of display artifacts, e.g. an object store.
type Mirror interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
}

type Store struct {
	mu             sync.Mutex
	live           []byte
	processingPath string
	displayPath    string
	mirror         Mirror
}

func NewStore(processingPath, displayPath string) *Store {
	return &Store{
		processingPath: processingPath,
		displayPath:    displayPath,
	}
}

// SetMirror enables mirroring of the display copy. Mirror failures are
// logged, never surfaced.
func (s *Store) SetMirror(m Mirror) {
	s.mirror = m
}

// UpdateLive overwrites the live slot. Lossy: only the latest frame
// matters for the preview.
func (s *Store) UpdateLive(frame []byte) {
	s.mu.Lock()
	s.live = frame
	s.mu.Unlock()
}

// Live returns the current live frame, or nil if none arrived yet.
func (s *Store) Live() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Capture copies the live frame into the captured slot and persists it.
// The copy is point-in-time: later live updates do not touch it.
func (s *Store) Capture() (string, error) {
	s.mu.Lock()
	live := s.live
	s.mu.Unlock()

	if live == nil {
		return "", ErrNoLiveFrame
	}

	frame := make([]byte, len(live))
	copy(frame, live)

	return s.persist(frame)
}

// SetCapturedFromExternal persists externally supplied image bytes (an
// upload) into the same captured slot the device path uses.
func (s *Store) SetCapturedFromExternal(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("frames: empty image data")
	}
	return s.persist(data)
}

func (s *Store) persist(frame []byte) (string, error) {
	for _, path := range []string{s.processingPath, s.displayPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, frame, 0o644); err != nil {
			return "", err
		}
	}

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		name := filepath.Base(s.displayPath)
		if err := s.mirror.Put(ctx, name, frame, "image/jpeg"); err != nil {
			logger.Warn("display copy mirror failed", "name", name, "error", err)
		}
		cancel()
	}

	logger.Debug("frame captured", "path", s.processingPath, "bytes", len(frame))
	return s.processingPath, nil
}
