package input

import "pkt.systems/termframe/internal/terminal"

// Handler receives decoded events. session.Controller implements it.
type Handler interface {
	HandleChar(ch byte) error
	HandleControl(ch byte) error
	HandleCommand(key terminal.Key) error
	HandleFunctionKey(key terminal.FunctionKey) error
	HandleLineFeed() error
	HandleCursorPosition(x, y int) error
}

// Dispatch delivers ev to h. The first handler error stops delivery.
func Dispatch(h Handler, events ...Event) error {
	for _, ev := range events {
		var err error
		switch ev.Kind {
		case KindChar:
			err = h.HandleChar(ev.Char)
		case KindControl:
			err = h.HandleControl(ev.Char)
		case KindCommand:
			err = h.HandleCommand(ev.Key)
		case KindFunction:
			err = h.HandleFunctionKey(ev.Function)
		case KindLineFeed:
			err = h.HandleLineFeed()
		case KindCursorPosition:
			err = h.HandleCursorPosition(ev.X, ev.Y)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
