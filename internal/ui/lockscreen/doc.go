// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lockscreen is the Bubble Tea front end of the lock.
//
// Model owns one *lock.Session. Each tea.KeyMsg is translated into
// lock.KeyEvent values (Translate) and applied in order. View hands a
// snapshot to Render, a pure function of that snapshot and the layout.
// The program quits as soon as the session is unlocked; nothing else
// ends it.
package lockscreen
