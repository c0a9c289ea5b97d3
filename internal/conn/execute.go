package conn

import "context"

// Execute runs a value-returning operation through the manager's queue and
// retry policy.
func Execute[T any](ctx context.Context, m *Manager, label string, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := m.Execute(ctx, label, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
