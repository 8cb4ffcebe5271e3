package camera

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lychee-collector/internal/domain/entity"
)

func TestFrameCell_LatestWins(t *testing.T) {
	var cell frameCell
	require.Nil(t, cell.load())

	cell.store(&entity.Frame{Data: []byte("first")})
	cell.store(&entity.Frame{Data: []byte("second")})
	require.Equal(t, []byte("second"), cell.load().Data)

	cell.clear()
	require.Nil(t, cell.load())
}

func TestFrameCell_ConcurrentAccess(t *testing.T) {
	var cell frameCell
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			cell.store(&entity.Frame{Width: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			cell.load()
		}
	}()
	wg.Wait()

	require.NotNil(t, cell.load())
	require.Equal(t, 999, cell.load().Width)
}
