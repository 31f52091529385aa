package upstream

import (
	"sync"
	"testing"
)

func TestAccessCache_StartsUntested(t *testing.T) {
	c := NewAccessCache()
	if c.State() != AccessUntested {
		t.Errorf("expected untested, got %v", c.State())
	}
}

func TestAccessCache_ConfirmIsOneWay(t *testing.T) {
	c := NewAccessCache()
	if !c.Confirm() {
		t.Fatal("expected first Confirm to settle the verdict")
	}
	if c.Deny() {
		t.Error("expected Deny after Confirm to be a no-op")
	}
	if c.State() != AccessConfirmed {
		t.Errorf("expected confirmed, got %v", c.State())
	}
}

func TestAccessCache_DenyIsOneWay(t *testing.T) {
	c := NewAccessCache()
	if !c.Deny() {
		t.Fatal("expected first Deny to settle the verdict")
	}
	if c.Confirm() {
		t.Error("expected Confirm after Deny to be a no-op")
	}
	if c.State() != AccessDenied {
		t.Errorf("expected denied, got %v", c.State())
	}
}

func TestAccessCache_ExactlyOneSettler(t *testing.T) {
	c := NewAccessCache()

	var wg sync.WaitGroup
	settled := make(chan bool, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(deny bool) {
			defer wg.Done()
			if deny {
				settled <- c.Deny()
			} else {
				settled <- c.Confirm()
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(settled)

	count := 0
	for s := range settled {
		if s {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one settler, got %d", count)
	}

	state := c.State()
	if state != AccessConfirmed && state != AccessDenied {
		t.Errorf("expected a settled state, got %v", state)
	}
}
