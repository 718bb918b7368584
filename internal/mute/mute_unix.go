//go:build unix

/*
 * mute_unix.go, part of qcutils.
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

package mute

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const stderrFd = 2

func redirect(fn func() error) (err error) {
	saved, err := unix.Dup(stderrFd)
	if err != nil {
		return fmt.Errorf("mute: saving stderr: %w", err)
	}
	defer unix.Close(saved)
	null, err := unix.Open(os.DevNull, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("mute: opening %s: %w", os.DevNull, err)
	}
	err = unix.Dup2(null, stderrFd)
	unix.Close(null)
	if err != nil {
		return fmt.Errorf("mute: redirecting stderr: %w", err)
	}
	defer func() {
		if rerr := unix.Dup2(saved, stderrFd); rerr != nil && err == nil {
			err = fmt.Errorf("mute: restoring stderr: %w", rerr)
		}
	}()
	return fn()
}
