// Package lock provides the Locker used to keep a single writer per inventory.
//
// MutexLocker covers one process. RedisLocker stores a random token under a key with
// SET NX PX and releases it with a Lua script that deletes the key only if it still
// holds that token, so an expired holder cannot free a lock taken by another process.
package lock
