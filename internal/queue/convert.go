package queue

import (
	"context"
	"fmt"

	"openconvert/internal/convertapi"
)

// Convert processes every item not already DONE, strictly one at a time in
// queue order. A second call while a run is active is a no-op; failures are
// isolated to the offending item and never abort the run.
func (e *Engine) Convert(ctx context.Context) {
	e.mu.Lock()
	if e.converting {
		e.mu.Unlock()
		return
	}
	e.banner = ""

	if pruned := e.pruneLocked(ctx); pruned > 0 {
		e.syncStoresLocked()
		e.renderLocked()
	}

	workSet := make([]string, 0, len(e.items))
	missingTarget := false
	for _, item := range e.items {
		if item.Status == StatusDone {
			continue
		}
		workSet = append(workSet, item.ID)
		if item.Target == "" {
			missingTarget = true
		}
	}
	if len(workSet) == 0 {
		e.mu.Unlock()
		return
	}

	if e.client.Endpoint() == "" {
		e.banner = msgEndpointUnconfigured
		e.renderLocked()
		e.mu.Unlock()
		return
	}
	if missingTarget {
		e.banner = msgMissingTargets
		e.renderLocked()
		e.mu.Unlock()
		return
	}

	e.converting = true
	e.renderLocked()
	e.mu.Unlock()

	for _, itemID := range workSet {
		e.convertSingle(ctx, itemID)
	}

	e.mu.Lock()
	e.converting = false
	e.renderLocked()
	e.mu.Unlock()
}

// convertSingle drives one item through PROCESSING to DONE or ERROR. Nothing
// it encounters escapes to the caller; the sequential loop always continues.
func (e *Engine) convertSingle(ctx context.Context, itemID string) {
	e.mu.Lock()
	index := e.indexOfLocked(itemID)
	if index < 0 {
		e.mu.Unlock()
		return
	}
	item := e.items[index]

	if item.Target == "" {
		e.items[index].setError(msgMissingTarget)
		e.renderLocked()
		e.mu.Unlock()
		return
	}

	file, ok := e.files.Get(item.ID)
	if !ok {
		// The raw file is gone; the item cannot possibly convert this
		// session, so it leaves the queue instead of erroring.
		e.items = append(e.items[:index], e.items[index+1:]...)
		e.downloads.Revoke(item.ID)
		e.persistLocked(ctx)
		e.renderLocked()
		e.mu.Unlock()
		return
	}

	e.items[index].Status = StatusProcessing
	e.items[index].ErrorMessage = ""
	e.items[index].OutputFileName = ""
	e.downloads.Revoke(item.ID)
	e.renderLocked()
	e.mu.Unlock()

	fallback := fmt.Sprintf("Failed to convert %s.", item.FileName)
	response, err := e.client.Submit(ctx, convertapi.Request{
		From:     item.Source,
		To:       item.Target,
		FileName: item.FileName,
		Data:     file.Data,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	index = e.indexOfLocked(itemID)
	if index < 0 {
		return
	}

	if err != nil {
		e.logger.Warn("conversion request failed", "item", itemID, "file", item.FileName, "error", err)
		e.items[index].setError(fallback)
		e.renderLocked()
		return
	}

	if !response.OK {
		e.items[index].setError(convertapi.ExtractErrorMessage(response.Payload, fallback))
		e.renderLocked()
		return
	}

	payload, ok := convertapi.ParseSuccessPayload(response.Payload)
	if !ok {
		e.items[index].setError(msgInvalidResponse)
		e.renderLocked()
		return
	}

	blob, err := convertapi.DecodeContent(payload.ContentBase64, payload.MimeType)
	if err != nil {
		e.logger.Warn("conversion payload decode failed", "item", itemID, "error", err)
		e.items[index].setError(msgInvalidResponse)
		e.renderLocked()
		return
	}

	if _, err := e.downloads.Set(item.ID, payload.FileName, blob.MimeType, blob.Data); err != nil {
		e.logger.Warn("spool converted output failed", "item", itemID, "error", err)
		e.items[index].setError(fallback)
		e.renderLocked()
		return
	}

	e.items[index].setDone(payload.FileName)
	e.renderLocked()
}
