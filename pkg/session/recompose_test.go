package session

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestRecomposerPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc := NewRecomposer(func(ctx context.Context, snap Snapshot) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, snap.Canvas.X, snap.Canvas.Y)), nil
	}, WithLogger(quietLogger()))
	go rc.Run(ctx)

	s := New(WithOnChange(rc.Submit))
	s.AddPhotos(testPhotos(1)...)
	_ = s.AppendNextAvailable(0)

	wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
	defer wcancel()
	res, err := rc.Wait(wctx, s.Snapshot().Version)
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Version != 2 || res.Err != nil || res.Image.Bounds().Dx() != 600 {
		t.Errorf("Wait() = version %d, err %v", res.Version, res.Err)
	}
	if latest, ok := rc.Latest(); !ok || latest.Version != 2 {
		t.Errorf("Latest() = %d, %v", latest.Version, ok)
	}
}

// A slow render of an old version never overwrites a newer result.
func TestRecomposerLastWriterWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	var mu sync.Mutex
	var rendered []uint64
	rc := NewRecomposer(func(ctx context.Context, snap Snapshot) (image.Image, error) {
		if snap.Version == 1 {
			<-release
		}
		mu.Lock()
		rendered = append(rendered, snap.Version)
		mu.Unlock()
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}, WithLogger(quietLogger()))
	go rc.Run(ctx)

	rc.Submit(Snapshot{Version: 1})
	time.Sleep(20 * time.Millisecond) // let version 1 start rendering
	for v := uint64(2); v <= 10; v++ {
		rc.Submit(Snapshot{Version: v})
	}
	rc.Submit(Snapshot{Version: 4}) // stale, ignored
	close(release)

	wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
	defer wcancel()
	res, err := rc.Wait(wctx, 10)
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if res.Version != 10 {
		t.Errorf("published version = %d, want 10", res.Version)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(rendered) != 2 || rendered[0] != 1 || rendered[1] != 10 {
		t.Errorf("rendered versions = %v, want [1 10]", rendered)
	}
}

func TestRecomposerDebounce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	rc := NewRecomposer(func(ctx context.Context, snap Snapshot) (image.Image, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}, WithDebounce(50*time.Millisecond), WithLogger(quietLogger()))
	go rc.Run(ctx)

	for v := uint64(1); v <= 20; v++ {
		rc.Submit(Snapshot{Version: v})
	}
	wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
	defer wcancel()
	if _, err := rc.Wait(wctx, 20); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("render calls = %d, want 1", calls)
	}
}

func TestRecomposerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boom := errors.New("boom")
	rc := NewRecomposer(func(context.Context, Snapshot) (image.Image, error) {
		return nil, boom
	}, WithLogger(quietLogger()))
	go rc.Run(ctx)

	rc.Submit(Snapshot{Version: 3})
	wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
	defer wcancel()
	res, err := rc.Wait(wctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("Result.Err = %v, want boom", res.Err)
	}
}

func TestRecomposerWaitCancelled(t *testing.T) {
	rc := NewRecomposer(nil, WithLogger(quietLogger()))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := rc.Wait(ctx, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}
