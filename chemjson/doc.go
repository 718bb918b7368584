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
Package chemjson implements serialization and unserialization of qcutils
structures and results. Its planned use is the communication of qcutils
programs with other, independent programs, which can be written in languages
other than Go, as long as they can read and write JSON.

A structure is encoded as the JSON form of chem.Structure.Dump. An ensemble
is a stream of such objects, one per line, or a JSON array of them. Files whose
names end in .zst or .gz are transparently (de)compressed with zstd or gzip.
*/
package chemjson
