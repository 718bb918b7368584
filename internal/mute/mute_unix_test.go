//go:build unix

/*
 * mute_unix_test.go, part of qcutils.
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
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func fdStat(t *testing.T, fd int) unix.Stat_t {
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(fd, &st))
	return st
}

func pathStat(t *testing.T, path string) unix.Stat_t {
	var st unix.Stat_t
	require.NoError(t, unix.Stat(path, &st))
	return st
}

func sameFile(a, b unix.Stat_t) bool {
	return a.Dev == b.Dev && a.Ino == b.Ino
}

func TestStderrPointsToNull(t *testing.T) {
	before := fdStat(t, stderrFd)
	null := pathStat(t, os.DevNull)
	var during unix.Stat_t
	err := Stderr(func() error {
		during = fdStat(t, stderrFd)
		_, err := os.Stderr.WriteString("this should not be seen\n")
		return err
	})
	require.NoError(t, err)
	assert.True(t, sameFile(during, null), "stderr was not redirected to %s", os.DevNull)
	assert.True(t, sameFile(before, fdStat(t, stderrFd)), "stderr was not restored")
}

func TestStderrRestoredAfterFailure(t *testing.T) {
	before := fdStat(t, stderrFd)
	err := Stderr(func() error { return errors.New("external program failed") })
	require.Error(t, err)
	assert.True(t, sameFile(before, fdStat(t, stderrFd)))

	func() {
		defer func() { recover() }()
		_ = Stderr(func() error { panic("crash") })
	}()
	assert.True(t, sameFile(before, fdStat(t, stderrFd)))
}
