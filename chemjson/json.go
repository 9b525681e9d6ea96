/*
 * json.go, part of fftype.
 *
 *
 * Copyright 2024 The fftype authors
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

package chemjson

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rmera/fftype"
)

//An easily JSON-serializable error type,
type Error struct {
	deco      []string
	IsError   bool //If this is false (no error) all the other fields will be at their zero-values.
	InInput   bool //Was it reading the request or parsing the structure?
	InCharges bool //Was it in deriving the charges? Types are still valid if so.
	InProcess bool
	Kind      string //the fftype error kind, if any
	Function  string //which go function gave the error
	Message   string //the error itself
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

var kinds = []error{fftype.ErrUnparsableInput, fftype.ErrPlaceholderExhausted, fftype.ErrPattern, fftype.ErrMissingChargeParameter}

//Takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "input":
		jerr.InInput = true
	case "charges":
		jerr.InCharges = true
	default:
		jerr.InProcess = true
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			jerr.Kind = k.Error()
			break
		}
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

//Request is one structure to be typed.
type Request struct {
	ID     string `json:"id"`
	SMILES string `json:"smiles"`
}

//DecodeRequests reads one JSON request per line until the end of stream.
//Empty lines are skipped.
func DecodeRequests(stream *bufio.Reader) ([]Request, *Error) {
	var ret []Request
	for n := 1; ; n++ {
		line, err := stream.ReadBytes('\n')
		if len(strings.TrimSpace(string(line))) > 0 {
			r := Request{}
			if err2 := json.Unmarshal(line, &r); err2 != nil {
				return nil, NewError("input", "DecodeRequests", fmt.Errorf("line %d: %w", n, err2))
			}
			if r.SMILES == "" {
				return nil, NewError("input", "DecodeRequests", fmt.Errorf("line %d: no smiles", n))
			}
			ret = append(ret, r)
		}
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, NewError("input", "DecodeRequests", err)
		}
	}
}

//Record holds the result for one structure. When marshaled, the types
//and charges go under the keys atom_types_<forcefield> and charges_<forcefield>,
//so records for several forcefields can be merged.
type Record struct {
	ID          string
	SMILES      string
	Forcefield  string
	Formula     string
	Types       []string
	Charges     []float64 //nil if charges were not derived
	TotalCharge float64
	Untyped     []int
	Warnings    []string
	Error       *Error
}

//NewRecord builds the record for the outcome of typing smiles. Either O or err
//may be nil.
func NewRecord(id, smiles, forcefield string, O *fftype.Outcome, err error) *Record {
	R := &Record{ID: id, SMILES: smiles, Forcefield: forcefield}
	if err != nil {
		where := "process"
		if errors.Is(err, fftype.ErrUnparsableInput) {
			where = "input"
		}
		R.Error = NewError(where, "NewRecord", err)
		return R
	}
	if O == nil {
		return R
	}
	R.Formula = O.Typing.Molecule.Formula()
	R.Types = O.Types()
	R.Untyped = O.Typing.Untyped
	for _, w := range O.Report.Warnings {
		R.Warnings = append(R.Warnings, w.Warning())
	}
	if O.Charges != nil {
		R.Charges = O.Charges.Charges
		R.TotalCharge = O.Charges.Total
	}
	if O.ChargeErr != nil {
		R.Error = NewError("charges", "NewRecord", O.ChargeErr)
	}
	return R
}

//TypesKey is the JSON key for the atom types obtained with forcefield ff.
func TypesKey(ff string) string {
	return "atom_types_" + ff
}

//ChargesKey is the JSON key for the charges obtained with forcefield ff.
func ChargesKey(ff string) string {
	return "charges_" + ff
}

//MarshalJSON implements json.Marshaler.
func (R *Record) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"id":         R.ID,
		"smiles":     R.SMILES,
		"forcefield": R.Forcefield,
	}
	if R.Formula != "" {
		m["formula"] = R.Formula
	}
	if R.Types != nil {
		m[TypesKey(R.Forcefield)] = R.Types
		m["untyped"] = nonNil(R.Untyped)
	}
	if R.Charges != nil {
		m[ChargesKey(R.Forcefield)] = R.Charges
		m["total_charge"] = R.TotalCharge
	}
	if len(R.Warnings) > 0 {
		m["warnings"] = R.Warnings
	}
	if R.Error != nil {
		m["error"] = R.Error
	}
	return json.Marshal(m)
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

//Send Marshals the record and writes it, as one line, to out.
func (R *Record) Send(out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(R); err != nil {
		return NewError("process", "Record.Send", err)
	}
	return nil
}

//Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}
