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

package network

import (
	"net"
	"sync"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// Iface describes one network interface.
type Iface struct {
	// Index is the system interface index.
	Index int

	// Name is the interface name.
	Name string

	// Flags are the interface flags (up, loopback, multicast, ...).
	Flags net.Flags

	// HWAddr is the hardware address, empty for virtual interfaces.
	HWAddr net.HardwareAddr

	// IPv4 lists the IPv4 endpoints bound to the interface.
	IPv4 []libedp.Endpoint

	// IPv6 lists the IPv6 endpoints bound to the interface.
	IPv6 []libedp.Endpoint
}

// IsUp returns true when the interface is administratively up.
func (i Iface) IsUp() bool {
	return i.Flags&net.FlagUp != 0
}

// IsLoopback returns true for the loopback interface.
func (i Iface) IsLoopback() bool {
	return i.Flags&net.FlagLoopback != 0
}

// Inventory lists the host interfaces with per-instance caching.
//
// The first List call loads the table; later calls return the cached copy
// until Reload. All methods are safe for concurrent use.
type Inventory interface {
	// List returns every interface, loading the table on first use.
	List() ([]Iface, liberr.Error)

	// ByName returns the named interface, or nil when absent.
	ByName(name string) (*Iface, liberr.Error)

	// ByIndex returns the interface with the system index, or nil.
	ByIndex(idx int) (*Iface, liberr.Error)

	// Reload drops the cache and loads the table again.
	Reload() liberr.Error
}

// NewInventory returns an empty Inventory; the table loads lazily.
func NewInventory() Inventory {
	return &inv{}
}

type inv struct {
	mux sync.Mutex
	lst []Iface
	lod bool
}

func (o *inv) List() ([]Iface, liberr.Error) {
	o.mux.Lock()
	defer o.mux.Unlock()

	if e := o.loadLocked(); e != nil {
		return nil, e
	}

	res := make([]Iface, len(o.lst))
	copy(res, o.lst)

	return res, nil
}

func (o *inv) ByName(name string) (*Iface, liberr.Error) {
	o.mux.Lock()
	defer o.mux.Unlock()

	if e := o.loadLocked(); e != nil {
		return nil, e
	}

	for i := range o.lst {
		if o.lst[i].Name == name {
			v := o.lst[i]
			return &v, nil
		}
	}

	return nil, nil
}

func (o *inv) ByIndex(idx int) (*Iface, liberr.Error) {
	o.mux.Lock()
	defer o.mux.Unlock()

	if e := o.loadLocked(); e != nil {
		return nil, e
	}

	for i := range o.lst {
		if o.lst[i].Index == idx {
			v := o.lst[i]
			return &v, nil
		}
	}

	return nil, nil
}

func (o *inv) Reload() liberr.Error {
	o.mux.Lock()
	defer o.mux.Unlock()

	o.lod = false

	return o.loadLocked()
}

func (o *inv) loadLocked() liberr.Error {
	if o.lod {
		return nil
	}

	lst, e := loadIfaces()
	if e != nil {
		return e
	}

	o.lst = lst
	o.lod = true

	return nil
}
