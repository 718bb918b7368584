/*
 * local.go, part of qcutils.
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

package backend

import chem "github.com/coltonbh/qcutils"

func init() {
	Register(Local{})
}

// Local is the native backend, a thin layer over chem.StructureRMSD and chem.Align.
type Local struct{}

func (Local) Name() string { return "local" }

func (Local) RMSD(s1, s2 *chem.Structure, o *Options) (float64, error) {
	o = orDefault(o)
	return chem.StructureRMSD(s1, s2, o.Align, o.Unit)
}

func (Local) Align(s, ref *chem.Structure, _ *Options) (*chem.Structure, error) {
	return chem.Align(s, ref)
}
