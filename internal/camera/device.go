// Package camera owns the capture device lifecycle and the live-frame read
// path. The device itself is abstracted behind the Device interface; the
// default implementation reads an MJPEG stream served over HTTP, which is
// how webcam daemons expose USB and IP cameras on the host.
package camera

import "errors"

// ErrHandleLost marks a handle that can no longer produce frames and must
// be reopened. The adapter releases the device when it sees this.
var ErrHandleLost = errors.New("camera: device handle lost")

// Device opens capture handles by device index.
type Device interface {
	Open(index int) (Handle, error)
}

// Handle is an open capture device. ReadFrame returns the next decoded
// frame as JPEG bytes, bounded by the device's own read timeout.
type Handle interface {
	ReadFrame() ([]byte, error)
	Close() error
}
