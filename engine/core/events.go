package core

import (
	"sync"

	"github.com/bastion3d/bastion/engine/containers"
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released. Data is a *KeyEvent.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Mouse button pressed. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04

	// Mouse button released. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05

	// Mouse moved. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// Mouse wheel scrolled. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_WHEEL SystemEventCode = 0x07

	// Resized/resolution changed from the OS. Data is a *SystemEvent.
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A watched asset file changed on disk. Data is the file path.
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type KeyEvent struct {
	KeyCode Key
}

type MouseEvent struct {
	Button     Button
	PosX, PosY int32
	WheelDelta int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type FnOnEvent func(context EventContext)

// Pending events wait in a fixed ring until the processing goroutine
// dispatches them, so firing from platform callbacks never re-enters
// listener code.
const maxPendingEvents = 512

type eventSystemState struct {
	mu         sync.Mutex
	registered map[SystemEventCode][]FnOnEvent
	pending    *containers.RingQueue
	wake       chan struct{}
	quit       chan struct{}
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[SystemEventCode][]FnOnEvent),
			pending:    containers.NewRingQueue(maxPendingEvents),
			wake:       make(chan struct{}, 1),
			quit:       make(chan struct{}),
		}
	})
	return eventState != nil
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	close(eventState.quit)
	eventState.mu.Lock()
	eventState.registered = make(map[SystemEventCode][]FnOnEvent)
	eventState.mu.Unlock()
	return nil
}

// Register adds a listener for the given code. Duplicate registrations of
// the same function are not detected; listeners are invoked in
// registration order.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	return true
}

// EventFire queues an event for dispatch. Dropped with a warning when the
// pending ring is full.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	err := eventState.pending.Enqueue(context)
	eventState.mu.Unlock()
	if err != nil {
		LogWarn("event queue full, dropping event code %d", context.Type)
		return false
	}
	select {
	case eventState.wake <- struct{}{}:
	default:
	}
	return true
}

// ProcessEvents drains the pending queue and dispatches to listeners.
// Intended to run on its own goroutine for the lifetime of the engine.
func ProcessEvents() {
	for {
		select {
		case <-eventState.quit:
			return
		case <-eventState.wake:
		}
		for {
			eventState.mu.Lock()
			value, err := eventState.pending.Dequeue()
			var listeners []FnOnEvent
			if err == nil {
				context := value.(EventContext)
				listeners = eventState.registered[context.Type]
				eventState.mu.Unlock()
				for _, fn := range listeners {
					fn(context)
				}
				continue
			}
			eventState.mu.Unlock()
			break
		}
	}
}
