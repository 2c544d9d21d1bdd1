package camera

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

const defaultReadTimeout = 5 * time.Second

// MJPEGDevice maps device indexes to MJPEG-over-HTTP stream URLs.
type MJPEGDevice struct {
	urls        []string
	client      *http.Client
	readTimeout time.Duration
}

func NewMJPEGDevice(urls []string) *MJPEGDevice {
	return &MJPEGDevice{
		urls:        urls,
		client:      &http.Client{},
		readTimeout: defaultReadTimeout,
	}
}

func (d *MJPEGDevice) Open(index int) (Handle, error) {
	if index < 0 || index >= len(d.urls) || d.urls[index] == "" {
		return nil, fmt.Errorf("no camera configured at index %d", index)
	}

	resp, err := d.client.Get(d.urls[index])
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}

	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("open camera %d: status %d", index, resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/x-mixed-replace" || params["boundary"] == "" {
		resp.Body.Close()
		return nil, fmt.Errorf("open camera %d: not an mjpeg stream", index)
	}

	return &mjpegHandle{
		resp:    resp,
		reader:  multipart.NewReader(resp.Body, params["boundary"]),
		timeout: d.readTimeout,
	}, nil
}

type mjpegHandle struct {
	resp    *http.Response
	reader  *multipart.Reader
	timeout time.Duration

	mu   sync.Mutex
	dead bool
}

type frameResult struct {
	data []byte
	err  error
}

func (h *mjpegHandle) ReadFrame() ([]byte, error) {
	h.mu.Lock()
	if h.dead {
		h.mu.Unlock()
		return nil, ErrHandleLost
	}
	h.mu.Unlock()

	done := make(chan frameResult, 1)

	go func() {
		part, err := h.reader.NextPart()
		if err != nil {
			done <- frameResult{err: err}
			return
		}
		data, err := io.ReadAll(part)
		done <- frameResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("read frame: %w", res.err)
		}
		return res.data, nil
	case <-time.After(h.timeout):
		// unblock the pending read; the stream position is gone, so the
		// handle cannot be reused
		h.mu.Lock()
		h.dead = true
		h.mu.Unlock()
		h.resp.Body.Close()
		return nil, fmt.Errorf("read frame: timeout after %s: %w", h.timeout, ErrHandleLost)
	}
}

func (h *mjpegHandle) Close() error {
	return h.resp.Body.Close()
}
