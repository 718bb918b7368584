/*
 * doc.go, part of qcutils.
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

/*
Package backend dispatches RMSD and alignment requests to named engines.

Each engine implements the Backend interface and registers itself under a
name. Lookup is case-insensitive. The engines shipped with qcutils are:

	local     Kabsch superposition from the chem package (gonum SVD).
	qcp       Theobald's quaternion characteristic polynomial method.
	gomatrix  Kabsch superposition using the SVD of github.com/skelterjohn/go.matrix.
	obabel    Open Babel's obrms program, which accounts for molecular symmetry.
	          It must be installed separately, and it can't align structures.

Asking for an engine that is not registered yields an *UnknownBackendError,
and nothing is computed.
*/
package backend
