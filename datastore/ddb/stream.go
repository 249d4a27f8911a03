/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"time"

	"github.com/suparena/dynamoentity/storagemodels"
)

// Stream walks every page stored under hashKey and sends the decoded entities
// on the returned channel, which is closed when the query is exhausted, the
// context is cancelled or a page fails. A failed page is reported as a final
// result carrying Error; nothing is retried.
func (d *Dao[T, K]) Stream(ctx context.Context, hashKey any, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)
	go d.streamWorker(ctx, hashKey, options, resultCh)
	return resultCh
}

// streamWorker handles the actual streaming logic
func (d *Dao[T, K]) streamWorker(
	ctx context.Context,
	hashKey any,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[T],
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	var token *K
	startTime := time.Now()

	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			StartTime:      startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(itemIndex) / elapsed
		}
		options.ProgressHandler(progress)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		page, err := d.query(ctx, hashKey, token, options.PageSize)
		if err != nil {
			select {
			case <-ctx.Done():
			case resultCh <- storagemodels.StreamResult[T]{
				Error: err,
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber + 1,
					Timestamp:  time.Now(),
				},
			}:
			}
			return
		}
		pageNumber++

		for _, item := range page.Items {
			select {
			case <-ctx.Done():
				return
			case resultCh <- storagemodels.StreamResult[T]{
				Item: item,
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}:
				itemIndex++
			}
		}

		reportProgress()

		if !page.HasMore() {
			return
		}
		token = page.Continuation
	}
}
