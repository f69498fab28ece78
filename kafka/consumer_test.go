package kafka

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mediaengine/assembly"
	"mediaengine/config"
	"mediaengine/processor"
	"mediaengine/types"

	"github.com/IBM/sarama"
)

type fakeJobProcessor struct {
	result types.AssemblyResult
	err    error
	jobs   []types.AssemblyJob
}

func (f *fakeJobProcessor) Process(ctx context.Context, job types.AssemblyJob) (types.AssemblyResult, error) {
	f.jobs = append(f.jobs, job)
	return f.result, f.err
}

func TestTypedMessageHandler(t *testing.T) {
	type msg struct {
		Name string `json:"name"`
	}
	var seen []string
	h := &TypedMessageHandler[msg]{
		Validate: func(m *msg) bool { return m.Name != "" },
		Process: func(ctx context.Context, m *msg) error {
			seen = append(seen, m.Name)
			if m.Name == "retry" {
				return errors.New("temporary")
			}
			return nil
		},
	}

	cases := []struct {
		name     string
		body     string
		mark     bool
		wantErr  bool
		skipMark bool
	}{
		{"ok", `{"name":"a"}`, true, false, false},
		{"process error", `{"name":"retry"}`, false, true, false},
		{"invalid kept", `{"name":""}`, false, false, false},
		{"invalid skipped", `{"name":""}`, true, false, true},
		{"garbage skipped", `{`, true, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h.SkipInvalid = c.skipMark
			mark, err := h.HandleMessage(context.Background(), []byte(c.body))
			if mark != c.mark {
				t.Errorf("mark = %v; want %v", mark, c.mark)
			}
			if (err != nil) != c.wantErr {
				t.Errorf("err = %v; wantErr %v", err, c.wantErr)
			}
		})
	}
	if len(seen) != 2 {
		t.Fatalf("processed %v; want only valid messages", seen)
	}
}

func TestJobHandler(t *testing.T) {
	valid := []byte(`{"id":"k1","avatar_path":"a.mp4","audio_path":"b.mp3","script":[{"content":"Oi"}]}`)

	t.Run("success is marked", func(t *testing.T) {
		proc := &fakeJobProcessor{result: types.AssemblyResult{Status: types.StatusSuccess}}
		mark, err := NewJobHandler(proc).HandleMessage(context.Background(), valid)
		if !mark || err != nil {
			t.Fatalf("mark = %v, err = %v", mark, err)
		}
		if len(proc.jobs) != 1 || proc.jobs[0].ID != "k1" || len(proc.jobs[0].Script) != 1 {
			t.Fatalf("jobs = %+v", proc.jobs)
		}
	})

	t.Run("failed assembly is not retried", func(t *testing.T) {
		proc := &fakeJobProcessor{result: types.AssemblyResult{Status: types.StatusFailure, ExitCode: 1}}
		mark, err := NewJobHandler(proc).HandleMessage(context.Background(), valid)
		if !mark || err != nil {
			t.Fatalf("mark = %v, err = %v", mark, err)
		}
	})

	t.Run("infrastructure error is retried", func(t *testing.T) {
		proc := &fakeJobProcessor{err: errors.New("upload failed")}
		mark, err := NewJobHandler(proc).HandleMessage(context.Background(), valid)
		if mark || err == nil {
			t.Fatalf("mark = %v, err = %v", mark, err)
		}
	})

	t.Run("interrupted job is retried", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		proc := &fakeJobProcessor{result: types.AssemblyResult{Status: types.StatusFailure, ExitCode: -1}}
		mark, err := NewJobHandler(proc).HandleMessage(ctx, valid)
		if mark || !errors.Is(err, context.Canceled) {
			t.Fatalf("mark = %v, err = %v", mark, err)
		}
	})

	t.Run("invalid job is skipped", func(t *testing.T) {
		proc := &fakeJobProcessor{}
		mark, err := NewJobHandler(proc).HandleMessage(context.Background(), []byte(`{"audio_path":"b.mp3"}`))
		if !mark || err != nil {
			t.Fatalf("mark = %v, err = %v", mark, err)
		}
		if len(proc.jobs) != 0 {
			t.Fatal("invalid job must not be processed")
		}
	})
}

func TestNewConsumerRequiresHandler(t *testing.T) {
	if _, err := NewConsumer(ConsumerConfig{Brokers: []string{"localhost:9093"}, Topic: "t", GroupID: "g"}); err == nil {
		t.Fatal("expected an error without a handler")
	}
}

func TestJobHandlerLeavesKilledAssemblyUnmarked(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	dir := t.TempDir()
	binary := filepath.Join(dir, "slow-ffmpeg")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}

	cfg := config.DefaultAssembly()
	cfg.Binary = binary
	proc := processor.New(processor.Deps{
		Assembler: assembly.New(cfg, nil),
		WorkDir:   filepath.Join(dir, "temp"),
		OutputDir: filepath.Join(dir, "output"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	msg := []byte(`{"id":"slow","avatar_path":"a.mp4","audio_path":"b.mp3"}`)
	mark, err := NewJobHandler(proc).HandleMessage(ctx, msg)
	if mark {
		t.Fatal("an assembly killed by shutdown must not be marked")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want context.DeadlineExceeded", err)
	}
}

// failingGroup is a consumer group whose sessions always fail to start
type failingGroup struct {
	sarama.ConsumerGroup
	calls  int32
	errors chan error
}

func (g *failingGroup) Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error {
	atomic.AddInt32(&g.calls, 1)
	return errors.New("kafka: client has run out of available brokers")
}

func (g *failingGroup) Errors() <-chan error { return g.errors }

func TestConsumerBacksOffAfterErrors(t *testing.T) {
	group := &failingGroup{errors: make(chan error)}
	close(group.errors)
	c := &Consumer{group: group, handler: NewJobHandler(&fakeJobProcessor{}), topic: "t", groupID: "g", retryBackoff: 50 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 175*time.Millisecond)
	defer cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if calls := atomic.LoadInt32(&group.calls); calls < 2 || calls > 5 {
		t.Fatalf("Consume called %d times; want a few spaced retries", calls)
	}
}
