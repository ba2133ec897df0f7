package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// An asset file was created or modified on disk.
	/* Context usage:
	 * *AssetEvent = context.Data
	 */
	EVENT_CODE_ASSET_RELOADED SystemEventCode = 0x02

	// An asset file was removed from disk.
	/* Context usage:
	 * *AssetEvent = context.Data
	 */
	EVENT_CODE_ASSET_REMOVED SystemEventCode = 0x03

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Number of events that can be pending before EventFire starts dropping them.
const EVENT_QUEUE_SIZE = 256

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// AssetEvent is the payload of the asset events.
type AssetEvent struct {
	Path string
}

type FnOnEvent func(context EventContext)

// State structure.
type eventSystemState struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered map[SystemEventCode][]FnOnEvent
	queue      chan EventContext
}

/**
 * Event system internal state.
 */
var eventState *eventSystemState = nil
var eventMutex sync.Mutex

/**
 * Initializes the event system. Any previous registration is dropped.
 */
func EventSystemInitialize() bool {
	eventMutex.Lock()
	defer eventMutex.Unlock()

	eventState = &eventSystemState{
		registered: make(map[SystemEventCode][]FnOnEvent),
		queue:      make(chan EventContext, EVENT_QUEUE_SIZE),
	}
	return true
}

func EventSystemShutdown() error {
	eventMutex.Lock()
	defer eventMutex.Unlock()

	eventState = nil
	return nil
}

func currentEventState() *eventSystemState {
	eventMutex.Lock()
	defer eventMutex.Unlock()
	return eventState
}

/**
 * Register to listen for when events are sent with the provided code.
 * @param code The event code to listen for.
 * @param onEvent The callback invoked when the event code is processed.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, onEvent FnOnEvent) bool {
	state := currentEventState()
	if state == nil || onEvent == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()

	state.registered[code] = append(state.registered[code], onEvent)
	return true
}

/**
 * Queues an event for the next ProcessEvents call. Safe to call from any
 * goroutine.
 * @returns TRUE if the event was queued; FALSE if the system is not
 * initialized or the queue is full.
 */
func EventFire(context EventContext) bool {
	state := currentEventState()
	if state == nil {
		return false
	}
	select {
	case state.queue <- context:
		return true
	default:
		LogWarn("event queue full, dropping event %d", context.Type)
		return false
	}
}

/**
 * Dispatches every pending event to its listeners on the calling goroutine
 * and returns the number of events processed. It does not block.
 */
func ProcessEvents() int {
	state := currentEventState()
	if state == nil {
		return 0
	}

	processed := 0
	for {
		select {
		case context := <-state.queue:
			state.mutex.RLock()
			listeners := state.registered[context.Type]
			state.mutex.RUnlock()
			for _, l := range listeners {
				l(context)
			}
			processed++
		default:
			return processed
		}
	}
}
