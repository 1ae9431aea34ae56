package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/warpdl/imgwarm/pkg/manifest"
	"github.com/warpdl/imgwarm/pkg/preload"
)

type countingBar struct {
	mu      sync.Mutex
	n       int
	aborted bool
}

func (b *countingBar) Increment() {
	b.mu.Lock()
	b.n++
	b.mu.Unlock()
}

func (b *countingBar) Abort(bool) {
	b.mu.Lock()
	b.aborted = true
	b.mu.Unlock()
}

func TestParseURLArg(t *testing.T) {
	tests := []struct {
		arg  string
		want manifest.Resource
	}{
		{"https://a.example/x.png", manifest.Resource{URL: "https://a.example/x.png", Priority: DEF_PRIORITY}},
		{"10:https://a.example/x.png", manifest.Resource{URL: "https://a.example/x.png", Priority: 10}},
		{"-2:img/x.png", manifest.Resource{URL: "img/x.png", Priority: -2}},
		{"img/x.png", manifest.Resource{URL: "img/x.png", Priority: DEF_PRIORITY}},
	}
	for _, tt := range tests {
		if got := parseURLArg(tt.arg); got != tt.want {
			t.Errorf("parseURLArg(%q) = %+v, want %+v", tt.arg, got, tt.want)
		}
	}
}

func TestLoadResources(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "warm.txt", []byte("9 /hero.jpg\n/logo.png\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := loadResources(fs, []string{"warm.txt", "1:/logo.png", "3:thumb.png"}, "https://school.example/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []manifest.Resource{
		{URL: "https://school.example/hero.jpg", Priority: 9},
		{URL: "https://school.example/logo.png", Priority: DEF_PRIORITY},
		{URL: "https://school.example/thumb.png", Priority: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("loadResources() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("loadResources()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// A manifest-looking argument that does not exist is treated as a url.
	got, err = loadResources(fs, []string{"https://a.example/page.html"}, "")
	if err != nil || len(got) != 1 || got[0].URL != "https://a.example/page.html" {
		t.Fatalf("unexpected result %+v, %v", got, err)
	}

	if _, err := loadResources(fs, []string{" "}, ""); err == nil {
		t.Fatal("expected error for empty arguments")
	}
}

func TestRunWarm(t *testing.T) {
	sched := preload.NewScheduler(&preload.SchedulerOpts{
		Fetcher: preload.FetcherFunc(func(ctx context.Context, url string) error {
			if strings.Contains(url, "broken") {
				return errors.New("status 404")
			}
			return nil
		}),
	})
	resources := []manifest.Resource{
		{URL: "https://a.example/1.png", Priority: 5},
		{URL: "https://a.example/broken.png", Priority: 4},
		{URL: "https://a.example/2.png", Priority: 3},
	}
	bar := &countingBar{}
	sum := runWarm(context.Background(), sched, resources, bar)

	if len(sum.ready) != 2 || len(sum.failed) != 1 || sum.interrupted {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.failed[0].URL != "https://a.example/broken.png" {
		t.Fatalf("unexpected failure %+v", sum.failed[0])
	}
	if bar.n != 3 || bar.aborted {
		t.Fatalf("expected 3 increments and no abort, got %d %v", bar.n, bar.aborted)
	}

	var buf bytes.Buffer
	printSummary(&buf, sum, len(resources))
	if !strings.Contains(buf.String(), "Warmed 2/3 images, 1 failed") {
		t.Fatalf("unexpected summary output %q", buf.String())
	}
}

func TestRunWarm_Interrupted(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	sched := preload.NewScheduler(&preload.SchedulerOpts{
		Fetcher: preload.FetcherFunc(func(ctx context.Context, url string) error {
			<-block
			return nil
		}),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bar := &countingBar{}
	sum := runWarm(ctx, sched, []manifest.Resource{{URL: "https://a.example/slow.png"}}, bar)
	if !sum.interrupted || !bar.aborted {
		t.Fatalf("expected interrupted run, got %+v", sum)
	}
}
