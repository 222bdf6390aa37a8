package m

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// TrainIndependent trains every network on the same lines, one goroutine per
// network, and returns each network's cost history. The networks must not
// share buffers; each is only touched by its own goroutine. Per-epoch progress
// is not printed. After the first failure, runs that have not started yet are
// skipped.
func TrainIndependent(ctx context.Context, nets []*Network, lines Lines, learningRate float64, epochs int) ([][]float64, error) {
	if len(nets) == 0 {
		return nil, fmt.Errorf("%w: no networks to train", ErrInvalidArgument)
	}
	inputs, targets := lines.Split()
	histories := make([][]float64, len(nets))

	g, ctx := errgroup.WithContext(ctx)
	for i, net := range nets {
		i, net := i, net
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			history, err := net.train(inputs, targets, learningRate, epochs, nil)
			if err != nil {
				return fmt.Errorf("network %d: %w", i, err)
			}
			histories[i] = history
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return histories, nil
}

// Best returns the index of the history with the lowest final cost. Empty
// histories and NaN costs never win. It returns -1 when nothing qualifies.
func Best(histories [][]float64) int {
	best := -1
	bestCost := math.Inf(1)
	for i, h := range histories {
		if len(h) == 0 {
			continue
		}
		if c := h[len(h)-1]; c < bestCost {
			best, bestCost = i, c
		}
	}
	return best
}
