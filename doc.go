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
Package chem is the main package of qcutils. It provides an immutable molecular
Structure and the geometric core used to compare structures:

  - Optimal superposition of one set of coordinates onto another (the Kabsch
    algorithm), always yielding a proper rotation, even for mirror-image inputs.
  - RMSD between two sets of coordinates, with or without prior superposition,
    reported in Bohr or Angstrom.
  - Alignment of a Structure onto a reference Structure, and rotation of a
    Structure around the cartesian axes.

Coordinates are kept in Bohr. Row i of a geometry is atom i, and atoms are compared
by index; no reordering or symmetry handling is attempted here (see the backend
package for engines that do that).
*/
package chem
