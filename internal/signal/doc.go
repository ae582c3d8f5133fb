// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signal provides observable values with synchronous change notification.
//
// A Signal holds one value. Set and Update store a new value and then call every
// subscriber in subscription order before returning. A Computed derives its value
// from one or more sources and is recomputed whenever any of them changes.
//
// # Usage
//
//	count := signal.New(0)
//	double := signal.NewComputed(func() int { return count.Get() * 2 }, count)
//	stop := double.Subscribe(func(v int) { log.Printf("double=%d", v) })
//	defer stop()
//	count.Set(2) // logs double=4
package signal
