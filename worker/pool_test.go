package worker

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/rest"
)

// stubFetcher answers every query with an empty structure message, or
// with failErr for queries whose ID is "FAIL".
type stubFetcher struct {
	calls   atomic.Int64
	failErr error
	delay   time.Duration
}

func (f *stubFetcher) Get(ctx context.Context, args *rest.RequestArgs) (message.Message, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if args.ID == "FAIL" {
		return nil, f.failErr
	}
	return message.NewStructureMessage(), nil
}

func TestFetchAll(t *testing.T) {
	f := &stubFetcher{failErr: errors.New("boom")}
	argsList := make([]*rest.RequestArgs, 10)
	for i := range argsList {
		argsList[i] = &rest.RequestArgs{Resource: rest.Codelist, ID: "CL_" + strconv.Itoa(i)}
	}
	argsList[3].ID = "FAIL"

	br := FetchAll(context.Background(), f, argsList, 4)

	if br.TotalJobs != 10 || br.CompletedJobs != 10 {
		t.Errorf("jobs = %d/%d; want 10/10", br.TotalJobs, br.CompletedJobs)
	}
	if br.FailedJobs != 1 || !br.HasErrors() {
		t.Errorf("FailedJobs = %d", br.FailedJobs)
	}
	if got := f.calls.Load(); got != 10 {
		t.Errorf("fetcher called %d times", got)
	}
	for i, r := range br.Results {
		if r == nil {
			t.Fatalf("result %d missing", i)
		}
		if r.ID != strconv.Itoa(i) {
			t.Errorf("result %d has ID %q", i, r.ID)
		}
	}
	if br.Results[3].Err == nil || br.Results[3].Message != nil {
		t.Errorf("failed job result = %+v", br.Results[3])
	}
	failed := br.Failed()
	if len(failed) != 1 || failed[0].ID != "3" {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestFetchAll_Empty(t *testing.T) {
	br := FetchAll(context.Background(), &stubFetcher{}, nil, 4)
	if br.TotalJobs != 0 || len(br.Results) != 0 {
		t.Errorf("batch = %+v", br)
	}
}

func TestFetchAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &stubFetcher{delay: time.Second}
	argsList := make([]*rest.RequestArgs, 50)
	for i := range argsList {
		argsList[i] = &rest.RequestArgs{Resource: rest.Codelist, ID: "X"}
	}

	done := make(chan *BatchResult, 1)
	go func() { done <- FetchAll(ctx, f, argsList, 2) }()

	select {
	case br := <-done:
		if br.CompletedJobs == 50 {
			t.Error("cancelled batch completed every job")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("FetchAll did not return after cancellation")
	}
}

func TestPool(t *testing.T) {
	f := &stubFetcher{failErr: errors.New("boom")}
	p := NewPool(context.Background(), f, 3)

	for i := 0; i < 6; i++ {
		id := "CL_" + strconv.Itoa(i)
		if i == 2 {
			id = "FAIL"
		}
		if !p.Submit(Job{ID: strconv.Itoa(i), Args: &rest.RequestArgs{Resource: rest.Codelist, ID: id}}) {
			t.Fatalf("Submit %d refused", i)
		}
	}

	br := p.CloseAndWait()
	if br.TotalJobs != 6 || br.CompletedJobs != 6 || br.FailedJobs != 1 {
		t.Errorf("batch = %d/%d/%d; want 6/6/1", br.TotalJobs, br.CompletedJobs, br.FailedJobs)
	}

	if p.Submit(Job{Args: &rest.RequestArgs{Resource: rest.Codelist, ID: "X"}}) {
		t.Error("Submit accepted after close")
	}
}

func TestPool_Stats(t *testing.T) {
	f := &stubFetcher{}
	p := NewPool(context.Background(), f, 2)
	for i := 0; i < 4; i++ {
		p.Submit(Job{Args: &rest.RequestArgs{Resource: rest.Codelist, ID: "X"}})
	}
	br := p.CloseAndWait()
	if br.CompletedJobs != 4 {
		t.Fatalf("CompletedJobs = %d", br.CompletedJobs)
	}

	s := p.Stats()
	if s.Workers != 2 || s.JobsSubmitted != 4 || s.JobsCompleted != 4 || s.JobsFailed != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestPool_Close(t *testing.T) {
	p := NewPool(context.Background(), &stubFetcher{}, 2)
	p.Submit(Job{Args: &rest.RequestArgs{Resource: rest.Codelist, ID: "X"}})
	p.Close()
	p.Close() // idempotent
}
