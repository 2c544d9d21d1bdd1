package camera

import (
	"errors"
	"testing"
)

type fakeHandle struct {
	frames [][]byte
	closed bool
}

func (h *fakeHandle) ReadFrame() ([]byte, error) {
	if len(h.frames) == 0 {
		return nil, errors.New("no frame")
	}
	frame := h.frames[0]
	h.frames = h.frames[1:]
	return frame, nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type fakeDevice struct {
	handles map[int]*fakeHandle
	opened  []int
}

func (d *fakeDevice) Open(index int) (Handle, error) {
	d.opened = append(d.opened, index)
	if h, ok := d.handles[index]; ok {
		return h, nil
	}
	return nil, errors.New("device not found")
}

func TestActivateIsIdempotent(t *testing.T) {
	dev := &fakeDevice{handles: map[int]*fakeHandle{0: {}}}
	a := NewAdapter(dev, 0, 1)

	already, err := a.Activate()
	if err != nil || already {
		t.Fatalf("first activate: already=%v err=%v", already, err)
	}

	already, err = a.Activate()
	if err != nil {
		t.Fatalf("second activate failed: %v", err)
	}
	if !already {
		t.Error("second activate should report already active")
	}

	if len(dev.opened) != 1 {
		t.Errorf("device opened %d times, want 1", len(dev.opened))
	}
}

func TestActivateFallsBackToSecondIndex(t *testing.T) {
	dev := &fakeDevice{handles: map[int]*fakeHandle{1: {}}}
	a := NewAdapter(dev, 0, 1)

	if _, err := a.Activate(); err != nil {
		t.Fatalf("activate should fall back: %v", err)
	}

	if len(dev.opened) != 2 || dev.opened[0] != 0 || dev.opened[1] != 1 {
		t.Errorf("unexpected open sequence: %v", dev.opened)
	}
}

func TestActivateFailureIsNotFatal(t *testing.T) {
	dev := &fakeDevice{handles: map[int]*fakeHandle{}}
	a := NewAdapter(dev, 0, 1)

	if _, err := a.Activate(); err == nil {
		t.Fatal("expected activation error")
	}
	if a.Active() {
		t.Error("adapter should stay inactive after failed activation")
	}

	// retry succeeds once a device appears
	dev.handles[0] = &fakeHandle{}
	if _, err := a.Activate(); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	handle := &fakeHandle{}
	dev := &fakeDevice{handles: map[int]*fakeHandle{0: handle}}
	a := NewAdapter(dev, 0, 1)

	if already := a.Deactivate(); !already {
		t.Error("deactivate before activate should report already inactive")
	}

	a.Activate()

	if already := a.Deactivate(); already {
		t.Error("first deactivate should not report already inactive")
	}
	if !handle.closed {
		t.Error("device handle should be released")
	}

	if already := a.Deactivate(); !already {
		t.Error("second deactivate should report already inactive")
	}
}

func TestReadFrameWhenInactive(t *testing.T) {
	dev := &fakeDevice{handles: map[int]*fakeHandle{}}
	a := NewAdapter(dev, 0, 1)

	if _, err := a.ReadFrame(); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type lostHandle struct {
	closed bool
}

func (h *lostHandle) ReadFrame() ([]byte, error) { return nil, ErrHandleLost }
func (h *lostHandle) Close() error               { h.closed = true; return nil }

type lostDevice struct {
	handle Handle
	opened int
}

func (d *lostDevice) Open(index int) (Handle, error) {
	d.opened++
	return d.handle, nil
}

func TestReadFrameReleasesLostHandle(t *testing.T) {
	handle := &lostHandle{}
	dev := &lostDevice{handle: handle}
	a := NewAdapter(dev, 0, 1)
	a.Activate()

	if _, err := a.ReadFrame(); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	if !handle.closed {
		t.Error("lost handle should be closed")
	}
	if a.Active() {
		t.Error("adapter should report inactive after losing the handle")
	}

	// the device can be reopened
	dev.handle = &fakeHandle{}
	already, err := a.Activate()
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if already {
		t.Error("reactivation should not report already active")
	}
	if dev.opened != 2 {
		t.Errorf("device opened %d times, want 2", dev.opened)
	}
}

func TestReadFrameReturnsDeviceFrame(t *testing.T) {
	dev := &fakeDevice{handles: map[int]*fakeHandle{0: {frames: [][]byte{[]byte("jpeg")}}}}
	a := NewAdapter(dev, 0, 1)
	a.Activate()

	frame, err := a.ReadFrame()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if string(frame) != "jpeg" {
		t.Errorf("unexpected frame: %q", frame)
	}

	// device exhausted: reported as unavailable, not as a hard error
	if _, err := a.ReadFrame(); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
