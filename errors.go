/*
 * errors.go, part of goglass.
 *
 *
 * Copyright 2025 Raul Mera rauldotmeraatusachdotcl
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
 *
 */

package glass

import "fmt"

//Error is the interface for errors that all packages in this library implement.
//The Decorate method allows to add and retrieve info from the error, without
//changing its type or wrapping it around something else. The decoration slice
//should contain a list of functions in the calling stack, plus, for each
//function, any relevant information, or nothing. If information is to be added
//to an element of the slice, it should be in this format: "FunctionName: Extra info".
//If passed an empty string, Decorate should just return the current value, not
//add the empty string to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

//errDecorate is a helper that checks that the error implements Error and
//decorates it with the caller's name before returning it. Errors from
//outside the library are returned unchanged.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//CError is the concrete error type for failures that carry no domain data
//beyond their message.
type CError struct {
	msg  string
	deco []string
}

func (err *CError) Error() string { return err.msg }

//Decorate adds the dec string to the decoration slice of the error and
//returns the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err *CError) Critical() bool { return true }

//GeometryError reports a simulation box that cannot support the geometric
//operations of the library: linearly dependent or near-degenerate lattice
//vectors, non-finite entries, or a cutoff that exceeds the minimum-image
//validity range of the box. It aborts the run, it is never retried.
type GeometryError struct {
	msg  string
	deco []string
}

//NewGeometryError produces a GeometryError with the given message.
func NewGeometryError(format string, args ...interface{}) *GeometryError {
	return &GeometryError{msg: fmt.Sprintf(format, args...)}
}

func (err *GeometryError) Error() string { return err.msg }

//Decorate adds the dec string to the decoration slice of the error and
//returns the resulting slice.
func (err *GeometryError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true. A bad box invalidates every result computed from it.
func (err *GeometryError) Critical() bool { return true }

//InsufficientNeighborsError reports an atom with an empty neighbor set under
//the chosen strategy and parameters. Downstream reductions over an empty set
//are undefined, so this is surfaced rather than zero-filled, unless the
//caller opts into skipping isolated atoms.
type InsufficientNeighborsError struct {
	AtomIndex int
	Strategy  string
	deco      []string
}

func (err *InsufficientNeighborsError) Error() string {
	return fmt.Sprintf("goglass: atom %d has no neighbors under the %s strategy", err.AtomIndex, err.Strategy)
}

//Decorate adds the dec string to the decoration slice of the error and
//returns the resulting slice.
func (err *InsufficientNeighborsError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true for this error type. Skip-listing isolated atoms
//happens before the error is created, not by ignoring it.
func (err *InsufficientNeighborsError) Critical() bool { return true }

//SchemaMismatchError reports a per-atom vector whose arity does not match
//the fixed column schema. It indicates a bug in a calculator stage and is
//never recoverable at runtime.
type SchemaMismatchError struct {
	Stage     string
	AtomIndex int
	Want      int
	Got       int
	deco      []string
}

func (err *SchemaMismatchError) Error() string {
	return fmt.Sprintf("goglass: %s produced a vector of length %d for atom %d, schema requires %d", err.Stage, err.Got, err.AtomIndex, err.Want)
}

//Decorate adds the dec string to the decoration slice of the error and
//returns the resulting slice.
func (err *SchemaMismatchError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true. The feature matrix cannot be assembled from
//mismatched vectors.
func (err *SchemaMismatchError) Critical() bool { return true }
