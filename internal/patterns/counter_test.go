package patterns

import "testing"

func TestCounterMode(t *testing.T) {
	c := newCounter()
	c.Add("a")
	c.Add("b")
	c.Add("b")

	if got := c.Mode(); got != "b" {
		t.Errorf("Mode() = %q, want b", got)
	}
}

func TestCounterModeTieBreaksFirstSeen(t *testing.T) {
	c := newCounter()
	c.Add("tabs")
	c.Add("spaces:4")
	c.Add("spaces:4")
	c.Add("tabs")

	if got := c.Mode(); got != "tabs" {
		t.Errorf("Mode() = %q, want first-seen tabs on tie", got)
	}
}

func TestCounterModeEmpty(t *testing.T) {
	if got := newCounter().Mode(); got != "" {
		t.Errorf("Mode() on empty = %q, want empty", got)
	}
}

func TestCounterTop(t *testing.T) {
	c := newCounter()
	for i := 0; i < 3; i++ {
		c.Add("os")
	}
	for i := 0; i < 2; i++ {
		c.Add("json")
	}
	c.Add("re")

	top := c.Top(2)
	if len(top) != 2 || top[0] != "os" || top[1] != "json" {
		t.Errorf("Top(2) = %v, want [os json]", top)
	}
}

func TestCounterTopCounts(t *testing.T) {
	c := newCounter()
	c.Add("init")
	c.Add("init")
	c.Add("main")

	counts := c.TopCounts(1)
	if len(counts) != 1 || counts["init"] != 2 {
		t.Errorf("TopCounts(1) = %v, want map[init:2]", counts)
	}
}
