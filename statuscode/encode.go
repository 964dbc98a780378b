/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package statuscode

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

func (s *Status) marshallByte() ([]byte, error) {
	return []byte("\"" + s.Code() + "\""), nil
}

func (s *Status) unmarshall(val []byte) error {
	*s = ParseBytes(val)
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Code())
}

func (s *Status) UnmarshalJSON(bytes []byte) error {
	return s.unmarshall(bytes)
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.Code(), nil
}

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	return s.unmarshall([]byte(value.Value))
}

func (s Status) MarshalTOML() ([]byte, error) {
	return s.marshallByte()
}

func (s *Status) UnmarshalTOML(i interface{}) error {
	if p, k := i.([]byte); k {
		return s.unmarshall(p)
	}
	if p, k := i.(string); k {
		return s.unmarshall([]byte(p))
	}
	return fmt.Errorf("status: value not in valid format")
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Code()), nil
}

func (s *Status) UnmarshalText(bytes []byte) error {
	return s.unmarshall(bytes)
}

func (s Status) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.Code())
}

func (s *Status) UnmarshalCBOR(bytes []byte) error {
	var t string
	if err := cbor.Unmarshal(bytes, &t); err != nil {
		return err
	} else {
		*s = Parse(t)
		return nil
	}
}
