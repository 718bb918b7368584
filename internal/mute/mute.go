/*
 * mute.go, part of qcutils.
 *
 * Copyright 2024 The qcutils Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package mute silences the standard error of the whole process while a function
// runs. It exists for external programs and native libraries that write noise
// straight to file descriptor 2, where Go's os.Stderr can't be swapped for them.
package mute

import "sync"

// mu serializes every muted section in the process: file descriptor 2 is
// shared by all goroutines, so two overlapping redirections would restore
// each other's state.
var mu sync.Mutex

// Stderr runs fn with the process-wide standard error pointed at the null device,
// and restores it afterwards, whether fn returns an error, succeeds or panics.
// Calls are serialized. fn's error is returned unchanged. If the redirection
// itself fails, fn is not run.
func Stderr(fn func() error) error {
	mu.Lock()
	defer mu.Unlock()
	return redirect(fn)
}
