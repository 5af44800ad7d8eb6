package rix

import (
	"errors"
	"testing"
)

func TestDrainTask(t *testing.T) {
	var d drainTask
	if !d.IsDone() {
		t.Error("idle IsDone() = false, want true")
	}
	if err := d.Wait(); err != nil {
		t.Errorf("idle Wait() = %v, want nil", err)
	}

	release := make(chan struct{})
	ran := false
	d.Run(func() error {
		<-release
		ran = true
		return nil
	})
	if d.IsDone() {
		t.Error("IsDone() = true while running")
	}
	close(release)
	if err := d.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
	if !ran || !d.IsDone() {
		t.Errorf("after Wait ran = %v, IsDone() = %v, want true, true", ran, d.IsDone())
	}

	runErr := errors.New("stream failed")
	d.Run(func() error { return runErr })
	if err := d.Wait(); !errors.Is(err, runErr) {
		t.Errorf("Wait() = %v, want %v", err, runErr)
	}
	if err := d.Wait(); err != nil {
		t.Errorf("second Wait() = %v, want nil", err)
	}
}
