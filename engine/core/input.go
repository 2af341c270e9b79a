package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type Key uint16

const (
	KEY_BACKSPACE Key = 0x08
	KEY_ENTER     Key = 0x0D
	KEY_TAB       Key = 0x09
	KEY_SHIFT     Key = 0x10
	KEY_ESCAPE    Key = 0x1B
	KEY_SPACE     Key = 0x20
	KEY_END       Key = 0x23
	KEY_HOME      Key = 0x24
	KEY_LEFT      Key = 0x25
	KEY_UP        Key = 0x26
	KEY_RIGHT     Key = 0x27
	KEY_DOWN      Key = 0x28
	KEY_0         Key = 0x30
	KEY_1         Key = 0x31
	KEY_2         Key = 0x32
	KEY_3         Key = 0x33
	KEY_4         Key = 0x34
	KEY_5         Key = 0x35
	KEY_6         Key = 0x36
	KEY_7         Key = 0x37
	KEY_8         Key = 0x38
	KEY_9         Key = 0x39
	KEY_A         Key = 0x41
	KEY_B         Key = 0x42
	KEY_C         Key = 0x43
	KEY_D         Key = 0x44
	KEY_E         Key = 0x45
	KEY_F         Key = 0x46
	KEY_G         Key = 0x47
	KEY_H         Key = 0x48
	KEY_I         Key = 0x49
	KEY_J         Key = 0x4A
	KEY_K         Key = 0x4B
	KEY_L         Key = 0x4C
	KEY_M         Key = 0x4D
	KEY_N         Key = 0x4E
	KEY_O         Key = 0x4F
	KEY_P         Key = 0x50
	KEY_Q         Key = 0x51
	KEY_R         Key = 0x52
	KEY_S         Key = 0x53
	KEY_T         Key = 0x54
	KEY_U         Key = 0x55
	KEY_V         Key = 0x56
	KEY_W         Key = 0x57
	KEY_X         Key = 0x58
	KEY_Y         Key = 0x59
	KEY_Z         Key = 0x5A
	KEY_LSHIFT    Key = 0xA0
	KEY_RSHIFT    Key = 0xA1
	KEY_LCONTROL  Key = 0xA2
	KEY_RCONTROL  Key = 0xA3
	KEYS_MAX_KEYS Key = 0x100
)

type keyboardState struct {
	keys [KEYS_MAX_KEYS]bool
}

type mouseState struct {
	x, y    int32
	buttons [BUTTON_MAX_BUTTONS]bool
}

type inputState struct {
	mu               sync.RWMutex
	keyboardCurrent  keyboardState
	keyboardPrevious keyboardState
	mouseCurrent     mouseState
	mousePrevious    mouseState
}

var onceInput sync.Once
var input *inputState

func InputInitialize() error {
	onceInput.Do(func() {
		input = &inputState{}
	})
	return nil
}

func InputShutdown() error {
	return nil
}

// InputUpdate copies current state to previous state. Always the last
// thing a frame does, after all input of the frame has been recorded.
func InputUpdate(deltaTime float64) {
	if input == nil {
		return
	}
	input.mu.Lock()
	input.keyboardPrevious = input.keyboardCurrent
	input.mousePrevious = input.mouseCurrent
	input.mu.Unlock()
}

// InputProcessKey records a key state change and fires the matching event.
func InputProcessKey(key Key, pressed bool) {
	input.mu.Lock()
	changed := input.keyboardCurrent.keys[key] != pressed
	input.keyboardCurrent.keys[key] = pressed
	input.mu.Unlock()

	if changed {
		code := EVENT_CODE_KEY_RELEASED
		if pressed {
			code = EVENT_CODE_KEY_PRESSED
		}
		EventFire(EventContext{Type: code, Data: &KeyEvent{KeyCode: key}})
	}
}

func InputProcessButton(button Button, pressed bool) {
	input.mu.Lock()
	changed := input.mouseCurrent.buttons[button] != pressed
	input.mouseCurrent.buttons[button] = pressed
	x, y := input.mouseCurrent.x, input.mouseCurrent.y
	input.mu.Unlock()

	if changed {
		code := EVENT_CODE_BUTTON_RELEASED
		if pressed {
			code = EVENT_CODE_BUTTON_PRESSED
		}
		EventFire(EventContext{Type: code, Data: &MouseEvent{Button: button, PosX: x, PosY: y}})
	}
}

func InputProcessMouseMove(x, y int32) {
	input.mu.Lock()
	moved := input.mouseCurrent.x != x || input.mouseCurrent.y != y
	input.mouseCurrent.x = x
	input.mouseCurrent.y = y
	input.mu.Unlock()

	if moved {
		EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED, Data: &MouseEvent{PosX: x, PosY: y}})
	}
}

func InputProcessMouseWheel(delta int8) {
	EventFire(EventContext{Type: EVENT_CODE_MOUSE_WHEEL, Data: &MouseEvent{WheelDelta: delta}})
}

func InputIsKeyDown(key Key) bool {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.keyboardCurrent.keys[key]
}

func InputIsKeyUp(key Key) bool {
	return !InputIsKeyDown(key)
}

func InputWasKeyDown(key Key) bool {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.keyboardPrevious.keys[key]
}

func InputIsButtonDown(button Button) bool {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.mouseCurrent.buttons[button]
}

func InputWasButtonDown(button Button) bool {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.mousePrevious.buttons[button]
}

func InputGetMousePosition() (int32, int32) {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.mouseCurrent.x, input.mouseCurrent.y
}

func InputGetPreviousMousePosition() (int32, int32) {
	input.mu.RLock()
	defer input.mu.RUnlock()
	return input.mousePrevious.x, input.mousePrevious.y
}
