package scheduler

import "context"

type Sweeper interface {
	Run(ctx context.Context) (int64, error)
}

type Dispatcher interface {
	DispatchPending(ctx context.Context) (int, error)
}

func ExpirySweep(s Sweeper) Job {
	return func(ctx context.Context) error {
		_, err := s.Run(ctx)
		return err
	}
}

func OutboxDispatch(d Dispatcher) Job {
	return func(ctx context.Context) error {
		_, err := d.DispatchPending(ctx)
		return err
	}
}
