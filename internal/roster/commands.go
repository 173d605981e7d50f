package roster

import (
	"context"
	"time"

	"github.com/alexisbeaulieu97/roster/internal/gateway"
	"github.com/alexisbeaulieu97/roster/internal/student"
)

// listCmd fetches the roster for request generation gen
func listCmd(ctx context.Context, gw gateway.Gateway, gen uint64) Cmd {
	return func() Msg {
		records, err := gw.List(ctx)
		if err != nil {
			return ListFailedMsg{Generation: gen, Err: err}
		}
		return ListLoadedMsg{Generation: gen, Records: records}
	}
}

// createCmd posts a new record
func createCmd(ctx context.Context, gw gateway.Gateway, draft student.Draft) Cmd {
	return func() Msg {
		rec, err := gw.Create(ctx, draft)
		if err != nil {
			return MutationFailedMsg{Kind: MutationCreate, Err: err}
		}
		return MutationDoneMsg{Kind: MutationCreate, Record: rec}
	}
}

// updateCmd replaces the fields of draft.ID
func updateCmd(ctx context.Context, gw gateway.Gateway, draft student.Draft) Cmd {
	return func() Msg {
		rec, err := gw.Update(ctx, draft.ID, draft)
		if err != nil {
			return MutationFailedMsg{Kind: MutationUpdate, ID: draft.ID, Err: err}
		}
		return MutationDoneMsg{Kind: MutationUpdate, Record: rec}
	}
}

// removeCmd deletes rec
func removeCmd(ctx context.Context, gw gateway.Gateway, rec student.Record) Cmd {
	return func() Msg {
		if err := gw.Remove(ctx, rec.ID); err != nil {
			return MutationFailedMsg{Kind: MutationDelete, ID: rec.ID, Err: err}
		}
		return MutationDoneMsg{Kind: MutationDelete, Record: rec}
	}
}

// expireCmd waits ttl and then asks to hide notification id
func expireCmd(after func(time.Duration) <-chan time.Time, ttl time.Duration, id uint64) Cmd {
	return func() Msg {
		<-after(ttl)
		return NotificationExpiredMsg{ID: id}
	}
}
