package shared

// KeyLocker serializes read-validate-write spans per entity key. Lock blocks
// until the key is free and returns the release function.
type KeyLocker interface {
	Lock(key string) (unlock func())
}
