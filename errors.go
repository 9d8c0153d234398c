package aspen

import "errors"

var (
	// ErrDuplicateSceneKey is returned when a scene is added under a key that
	// is already in use.
	ErrDuplicateSceneKey = errors.New("aspen: scene key already in use")
	// ErrInvalidPlugin is returned when a plugin is installed without a factory.
	ErrInvalidPlugin = errors.New("aspen: invalid plugin factory")
	// ErrPluginKeyInUse is returned when a plugin key is already registered.
	ErrPluginKeyInUse = errors.New("aspen: plugin key in use")
	// ErrZeroDelayLoop is returned for a repeating timer with no delay.
	ErrZeroDelayLoop = errors.New("aspen: timer event cannot repeat with zero delay")
	// ErrUnknownScene is returned when a scene key is not registered.
	ErrUnknownScene = errors.New("aspen: unknown scene")
	// ErrGameDestroyed is returned when running a game that was destroyed.
	ErrGameDestroyed = errors.New("aspen: game destroyed")
	// ErrLoaderRunning is returned when the loader is asked to reconfigure mid-load.
	ErrLoaderRunning = errors.New("aspen: loader is running")
)
