package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/AlexZinkM/midnight-hello/internal/model"
)

var (
	// ErrSyncTimeout is returned when the wallet stops reporting progress
	ErrSyncTimeout = errors.New("timed out waiting for wallet sync")
	// ErrSubscriptionClosed is returned when the update stream ends before the wallet synced
	ErrSubscriptionClosed = errors.New("wallet state subscription closed before sync completed")
)

// WaitForSync consumes state updates until one reports synced.
// first bounds the wait for the first update, each bounds the wait between later updates.
// onProgress, if set, sees every update including the final one.
func WaitForSync(
	ctx context.Context,
	updates <-chan *model.WalletState,
	errs <-chan error,
	first, each time.Duration,
	onProgress func(*model.WalletState),
) (*model.WalletState, error) {
	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, ErrSyncTimeout

		case err, ok := <-errs:
			if ok && err != nil {
				return nil, err
			}
			errs = nil

		case state, ok := <-updates:
			if !ok {
				select {
				case err := <-errs:
					if err != nil {
						return nil, err
					}
				default:
				}
				return nil, ErrSubscriptionClosed
			}
			if onProgress != nil {
				onProgress(state)
			}
			if state.IsSynced() {
				return state, nil
			}

			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(each)
		}
	}
}
