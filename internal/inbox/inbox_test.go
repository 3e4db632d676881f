package inbox

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_DrainEmptyIsNil(t *testing.T) {
	q := New[int]()
	require.Nil(t, q.Drain())
}

func TestQueue_PushThenDrainFIFO(t *testing.T) {
	q := New[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	require.Equal(t, []int{1, 2, 3}, q.Drain())
	require.Nil(t, q.Drain())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := New[int]()

	var wg sync.WaitGroup
	for p := range 8 {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := range 50 {
				q.Push(p*50 + i)
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, 400, len(q.Drain()))
}

func TestQueue_WaitBlocksUntilPush(t *testing.T) {
	q := New[string]()

	done := make(chan []string, 1)
	go func() {
		done <- q.Wait()
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push("hello")

	select {
	case got := <-done:
		require.Equal(t, []string{"hello"}, got)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Push")
	}
}

func TestQueue_CloseWakesWaiters(t *testing.T) {
	q := New[int]()

	done := make(chan []int, 1)
	go func() {
		done <- q.Wait()
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case got := <-done:
		require.Nil(t, got)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Close")
	}
}

func TestQueue_PushAfterCloseDropped(t *testing.T) {
	q := New[int]()
	q.Close()
	q.Push(1)
	require.Nil(t, q.Drain())
}
