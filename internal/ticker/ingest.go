package ticker

import "context"

// RunIngest drains decoded batches from the feed queue and applies them to
// the store in arrival order. It is the store's only writer. It returns
// when ctx is cancelled or the channel is closed; malformed data never
// reaches this stage, so there is no error path.
func RunIngest(ctx context.Context, batches <-chan []Record, store *Store) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			store.Upsert(batch)
		}
	}
}
