package data

import "context"

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y []float64
}

// Emit streams the rows of X and Y as samples, in order. The channel is
// closed after the last row or when ctx is done.
func Emit(ctx context.Context, X [][]float64, Y []float64) <-chan Sample {
	out := make(chan Sample)
	go func() {
		defer close(out)
		for i := range X {
			select {
			case <-ctx.Done():
				return
			case out <- Sample{X: X[i], Y: Y[i]}:
			}
		}
	}()
	return out
}

// Batcher reads samples from in and emits mini-batches of batchSize. The last
// batch may be smaller. Cancel ctx to stop early.
func Batcher(ctx context.Context, in <-chan Sample, batchSize int) <-chan Batch {
	out := make(chan Batch)
	if batchSize < 1 {
		batchSize = 1
	}

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64

		send := func() bool {
			select {
			case <-ctx.Done():
				return false
			case out <- Batch{X: X, Y: Y}:
			}
			X, Y = nil, nil
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-in:
				if !ok {
					// flush the partial batch
					if len(Y) > 0 {
						send()
					}
					return
				}
				X = append(X, s.X)
				Y = append(Y, s.Y)
				if len(Y) == batchSize && !send() {
					return
				}
			}
		}
	}()
	return out
}
