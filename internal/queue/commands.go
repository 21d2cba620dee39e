package queue

import "context"

// Command is a typed user action produced by the presentation layer and
// consumed by the engine through Dispatch, keeping the two decoupled without
// string-keyed lookups.
type Command interface {
	isCommand()
}

// RemoveItem removes a queue item.
type RemoveItem struct {
	ID string
}

// ChangeTarget sets a queue item's target format.
type ChangeTarget struct {
	ID    string
	Value string
}

// Download requests a save of an item's produced output.
type Download struct {
	ID string
}

func (RemoveItem) isCommand()   {}
func (ChangeTarget) isCommand() {}
func (Download) isCommand()     {}

// Saver persists a produced download outside the engine, e.g. to the user's
// download directory.
type Saver interface {
	Save(fileName, mimeType, ref string) error
}

// Dispatch executes a presentation-layer command. Download commands are
// forwarded to the saver when one is provided; a missing download is a no-op.
func (e *Engine) Dispatch(ctx context.Context, command Command, saver Saver) {
	switch c := command.(type) {
	case RemoveItem:
		e.Remove(ctx, c.ID)
	case ChangeTarget:
		e.ChangeTarget(ctx, c.ID, c.Value)
	case Download:
		download, ok := e.Download(c.ID)
		if !ok || saver == nil {
			return
		}
		if err := saver.Save(download.FileName, download.MimeType, download.Ref); err != nil {
			e.logger.Warn("save download failed", "item", c.ID, "error", err)
		}
	}
}
