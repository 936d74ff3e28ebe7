package codorbits

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/codorbits/wordpress"
)

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	c := NewContentCache(newFakeGateway(), time.Minute, 1)
	if _, err := NewScheduler(c, "not a spec", log.New("test")); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestSchedulerWarmsOnStart(t *testing.T) {
	gw := newFakeGateway()
	gw.all = []wordpress.PostSummary{{Slug: "a"}}
	c := NewContentCache(gw, time.Hour, 1)

	s, err := NewScheduler(c, "@every 1h", log.New("test"))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for gw.count("GetAllPosts") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache was not warmed on start")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
