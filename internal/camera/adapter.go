package camera

import (
	"errors"
	"sync"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
)

// ErrUnavailable is returned by ReadFrame when the adapter is inactive or
// the device produced no frame.
var ErrUnavailable = errors.New("camera: no frame available")

// Adapter drives one capture device, trying a primary index and falling
// back to a secondary one on activation.
type Adapter struct {
	mu       sync.Mutex
	device   Device
	handle   Handle
	primary  int
	fallback int
}

func NewAdapter(device Device, primary, fallback int) *Adapter {
	return &Adapter{
		device:   device,
		primary:  primary,
		fallback: fallback,
	}
}

// Activate opens the capture device. It reports already=true and does
// nothing when the device is open. A failed open is not fatal: the adapter
// stays inactive and Activate can be retried.
func (a *Adapter) Activate() (already bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handle != nil {
		return true, nil
	}

	handle, err := a.device.Open(a.primary)
	if err != nil {
		logger.Warn("primary camera unavailable, trying fallback", "index", a.primary, "error", err)
		handle, err = a.device.Open(a.fallback)
	}
	if err != nil {
		return false, err
	}

	a.handle = handle
	return false, nil
}

// Deactivate releases the device. Reports already=true when nothing was
// open.
func (a *Adapter) Deactivate() (already bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handle == nil {
		return true
	}

	if err := a.handle.Close(); err != nil {
		logger.Warn("camera close failed", "error", err)
	}
	a.handle = nil
	return false
}

func (a *Adapter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle != nil
}

// ReadFrame returns the next decoded frame, or ErrUnavailable when the
// adapter is inactive or the device reported no frame. A lost handle is
// released so a later Activate can reopen the device.
func (a *Adapter) ReadFrame() ([]byte, error) {
	a.mu.Lock()
	handle := a.handle
	a.mu.Unlock()

	if handle == nil {
		return nil, ErrUnavailable
	}

	frame, err := handle.ReadFrame()
	if err != nil {
		if errors.Is(err, ErrHandleLost) {
			a.release(handle)
			logger.Warn("camera handle lost, device released", "error", err)
		} else {
			logger.Debug("frame read failed", "error", err)
		}
		return nil, ErrUnavailable
	}

	return frame, nil
}

func (a *Adapter) release(handle Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handle != handle {
		return
	}
	if err := a.handle.Close(); err != nil {
		logger.Warn("camera close failed", "error", err)
	}
	a.handle = nil
}
