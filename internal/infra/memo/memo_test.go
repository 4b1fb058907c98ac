package memo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputedCachesUntilDependencyChanges(t *testing.T) {
	items := NewCell([]int{1, 2, 3})
	calls := 0
	sum := NewComputed(func() int {
		calls++
		total := 0
		for _, v := range items.Get() {
			total += v
		}
		return total
	}, items)

	require.Equal(t, 6, sum.Get())
	require.Equal(t, 6, sum.Get())
	require.Equal(t, 1, calls)

	items.Set([]int{4, 5})
	require.Equal(t, 9, sum.Get())
	require.Equal(t, 2, calls)

	items.Update(func(v []int) []int { return append(v, 1) })
	require.Equal(t, 10, sum.Get())
	require.Equal(t, 3, calls)
}

func TestComputedChains(t *testing.T) {
	base := NewCell(2)
	doubledCalls, squaredCalls := 0, 0
	doubled := NewComputed(func() int {
		doubledCalls++
		return base.Get() * 2
	}, base)
	squared := NewComputed(func() int {
		squaredCalls++
		v := doubled.Get()
		return v * v
	}, doubled)

	require.Equal(t, 16, squared.Get())
	require.Equal(t, 16, squared.Get())
	require.Equal(t, 1, doubledCalls)
	require.Equal(t, 1, squaredCalls)

	base.Set(3)
	require.Equal(t, 36, squared.Get())
	require.Equal(t, 2, doubledCalls)
	require.Equal(t, 2, squaredCalls)
}

func TestComputedWithoutDependencies(t *testing.T) {
	calls := 0
	c := NewComputed(func() string {
		calls++
		return "static"
	})
	require.Equal(t, "static", c.Get())
	require.Equal(t, "static", c.Get())
	require.Equal(t, 1, calls)
}

func TestCellConcurrentAccess(t *testing.T) {
	counter := NewCell(0)
	view := NewComputed(func() int { return counter.Get() }, counter)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.Update(func(v int) int { return v + 1 })
				_ = view.Get()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1600, counter.Get())
	require.Equal(t, 1600, view.Get())
	require.Equal(t, uint64(1601), counter.Version())
}
